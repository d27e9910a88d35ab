package cmd

import (
	"country-pipeline/core/loader"
	"country-pipeline/core/server"
	"country-pipeline/feature/countries"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciled records over HTTP",
	Long: `Starts the HTTP server and initializes all enabled features.
The countries feature serves the joined records and the upsert text built
from the current snapshots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		svc, err := newService(cfg, logg, false)
		if err != nil {
			return err
		}

		app := server.New(cfg.Server, logg)

		mgr := loader.NewManager(logg)
		mgr.Register(countries.NewFeature(svc))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			errCh <- app.Listen(cfg.Server.Address())
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
