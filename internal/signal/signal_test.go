package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestFromStringNames(t *testing.T) {
	cases := []struct {
		in   string
		want unix.Signal
	}{
		{"TERM", unix.SIGTERM},
		{"SIGTERM", unix.SIGTERM},
		{"term", unix.SIGTERM},
		{"sigterm", unix.SIGTERM},
		{"KILL", unix.SIGKILL},
		{"9", unix.Signal(9)},
		{"15", unix.SIGTERM},
	}
	for _, tc := range cases {
		got, err := FromString(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFromStringUnknown(t *testing.T) {
	_, err := FromString("NOTASIGNAL")
	assert.Error(t, err)
}
