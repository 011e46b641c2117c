// +build linux

package main

import (
	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/command"
)

var startCommand = cli.Command{
	Name:      "start",
	Usage:     "executes the user-defined process in a created container",
	ArgsUsage: "<container-id>",
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			return cli.NewExitError("start: container id required", 1)
		}
		return command.Start(context.GlobalString("root"), id)
	},
}
