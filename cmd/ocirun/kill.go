// +build linux

package main

import (
	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/command"
)

var killCommand = cli.Command{
	Name:      "kill",
	Usage:     "send a signal to a container",
	ArgsUsage: "<container-id> [signal]",
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			return cli.NewExitError("kill: container id required", 1)
		}
		sig := context.Args().Get(1)
		if sig == "" {
			sig = "TERM"
		}
		return command.Kill(context.GlobalString("root"), id, sig)
	},
}
