package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/detectd/config"
	"go.viam.com/detectd/logging"
	"go.viam.com/detectd/web/server"
)

// ServeAction is the corresponding Action for 'serve'.
func ServeAction(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		cfg, err = config.Read(path)
		if err != nil {
			return err
		}
	}
	if c.IsSet(flagAddress) {
		cfg.Server.Address = c.String(flagAddress)
	}
	if c.Bool(flagDebug) {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.NewLoggerFromConfig("detectd", cfg.Log)
	if err != nil {
		return err
	}
	logging.ReplaceGlobal(logger)
	//nolint:errcheck
	defer logger.Sync()

	return server.RunServer(c.Context, cfg, logger)
}
