// +build linux

package main

import (
	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/command"
)

var createCommand = cli.Command{
	Name:      "create",
	Usage:     "create a container",
	ArgsUsage: "<container-id>",
	Description: `The create command creates an instance of a container from a bundle.
The container will be left in the Created state, ready for a subsequent
"start" to run the bundle's configured process.`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "bundle, b",
			Value: ".",
			Usage: "path to the root of the bundle directory",
		},
		cli.StringFlag{
			Name:  "pid-file",
			Value: "",
			Usage: "file to write the process id to",
		},
		cli.StringFlag{
			Name:  "console-socket",
			Value: "",
			Usage: "path to a unix socket that will receive the pty master fd",
		},
	},
	Action: func(context *cli.Context) error {
		id := context.Args().First()
		if id == "" {
			return cli.NewExitError("create: container id required", 1)
		}
		return command.Create(
			context.GlobalString("root"),
			id,
			context.String("bundle"),
			context.String("pid-file"),
			context.String("console-socket"),
		)
	},
}
