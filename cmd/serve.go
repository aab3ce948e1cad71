package cmd

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/api"
	"github.com/arlab/arlab/internal/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and progress over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd, logService)
		if err != nil {
			return err
		}
		defer d.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			d.cfg.HTTP.Address = addr
		}
		if d.cfg.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret (ARLAB_JWT_SECRET) is required to serve")
		}
		issuer, err := auth.NewIssuer(d.cfg.Auth.JWTSecret, d.cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(api.Deps{
			Catalog: d.catalog,
			Tracker: d.tracker,
			Issuer:  issuer,
			Tutor:   d.tutor(cmd, false),
			Logger:  d.logger,
		})
		return srv.Run(ctx, api.Config{
			Address:     d.cfg.HTTP.Address,
			ReadTimeout: d.cfg.HTTP.ReadTimeout,
			IdleTimeout: d.cfg.HTTP.IdleTimeout,
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http.address)")
}
