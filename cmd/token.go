package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token [user]",
	Short: "Issue a bearer token for the HTTP API",
	Long: "Issue a bearer token signed with auth.jwt_secret. The user defaults\n" +
		"to the configured user id. Intended for local development.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret (ARLAB_JWT_SECRET) is required to issue tokens")
		}

		ttl := cfg.Auth.TokenTTL
		if cmd.Flags().Changed("ttl") {
			ttl, _ = cmd.Flags().GetDuration("ttl")
		}
		issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, ttl)
		if err != nil {
			return err
		}

		user := cfg.UserID
		if len(args) == 1 {
			user = args[0]
		}
		tok, err := issuer.Issue(user)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (overrides auth.token_ttl; 0 never expires)")
}
