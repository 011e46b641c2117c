// +build linux

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/nestybox/ocirun/internal/logging"
	"github.com/nestybox/ocirun/internal/nsrun"
)

func main() {
	// A re-exec'd bootstrap stage dispatches here before any flag is parsed,
	// since os.Args[0] carries the stage marker instead of a real argv[0].
	if nsrun.Init() {
		return
	}

	app := cli.NewApp()
	app.Name = "ocirun"
	app.Usage = "Open Container Initiative runtime"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "root",
			Value: "/run/ocirun",
			Usage: "root directory for storage of container state",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "path to log file (defaults to stderr)",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "log output format, 'text' or 'json'",
		},
	}

	app.Before = func(context *cli.Context) error {
		return logging.Setup(context.GlobalString("log"), context.GlobalString("log-format"))
	}

	app.Commands = []cli.Command{
		createCommand,
		startCommand,
		killCommand,
		stopCommand,
		deleteCommand,
		stateCommand,
		specCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
