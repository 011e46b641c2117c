package nsrun

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
	"golang.org/x/sys/unix"

	"github.com/nestybox/ocirun/internal/specload"
)

// cloneFlag maps an OCI namespace type to its CLONE_NEW* flag. Unrecognized
// types map to 0, which adds nothing to the unshare mask; an entry of such a
// type that carries a path is still passed to setns(2), with nstype 0.
func cloneFlag(t specs.LinuxNamespaceType) int {
	switch t {
	case specs.PIDNamespace:
		return unix.CLONE_NEWPID
	case specs.NetworkNamespace:
		return unix.CLONE_NEWNET
	case specs.MountNamespace:
		return unix.CLONE_NEWNS
	case specs.IPCNamespace:
		return unix.CLONE_NEWIPC
	case specs.UTSNamespace:
		return unix.CLONE_NEWUTS
	case specs.UserNamespace:
		return unix.CLONE_NEWUSER
	case specs.CgroupNamespace:
		return unix.CLONE_NEWCGROUP
	default:
		return 0
	}
}

func namespaceByType(nss []specload.NamespaceSpec, t specs.LinuxNamespaceType) (specload.NamespaceSpec, bool) {
	for _, ns := range nss {
		if ns.Type == t {
			return ns, true
		}
	}
	return specload.NamespaceSpec{}, false
}
