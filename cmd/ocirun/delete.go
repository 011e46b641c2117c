// +build linux

package main

import (
	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/command"
)

var deleteCommand = cli.Command{
	Name:      "delete",
	Usage:     "delete any resources held by a container",
	ArgsUsage: "<container-id>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "force, f",
			Usage: "forcibly kill a still-running container before deleting it",
		},
	},
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			return cli.NewExitError("delete: container id required", 1)
		}
		return command.Delete(context.GlobalString("root"), id, context.Bool("force"))
	},
}
