// Package cli contains the detectd command line: running the server and querying one.
package cli

import (
	"io"
	"time"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagConfig   = "config"
	flagAddress  = "address"
	flagDebug    = "debug"
	flagTimeout  = "timeout"
	flagRetries  = "retries"
	flagParallel = "parallel"
)

// NewApp returns the detectd command line app writing to out and errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "detectd",
		Usage:           "serve and query object detection over gRPC",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		// errors go back to the caller of Run; only main exits.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the inference server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load configuration from `FILE`",
					},
					&cli.StringFlag{
						Name:  flagAddress,
						Usage: "listen on `ADDRESS` instead of the configured address",
					},
				},
				Action: ServeAction,
			},
			{
				Name:      "detect",
				Usage:     "run detection on image files using a running server",
				ArgsUsage: "IMAGE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagAddress,
						Value: "localhost:50051",
						Usage: "server `ADDRESS`",
					},
					&cli.DurationFlag{
						Name:  flagTimeout,
						Value: 30 * time.Second,
						Usage: "timeout for each image",
					},
					&cli.IntFlag{
						Name:  flagRetries,
						Value: 3,
						Usage: "retries for transient failures, 0 disables them",
					},
					&cli.IntFlag{
						Name:  flagParallel,
						Value: 4,
						Usage: "images in flight at once",
					},
				},
				Action: DetectAction,
			},
		},
	}
}
