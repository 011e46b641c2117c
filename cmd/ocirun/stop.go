// +build linux

package main

import (
	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/command"
)

var stopCommand = cli.Command{
	Name:      "stop",
	Usage:     "forcibly stop a container",
	ArgsUsage: "<container-id>",
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			return cli.NewExitError("stop: container id required", 1)
		}
		return command.Stop(context.GlobalString("root"), id)
	},
}
