package cmd

import (
	"fmt"

	"github.com/USA-RedDragon/obs-remote/internal/config"
	"github.com/USA-RedDragon/obs-remote/internal/utils"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

const (
	tokenSubjectKey = "token.subject"
	tokenTTLKey     = "token.ttl"
)

var ErrJWTSecretRequired = errors.New("auth.jwt_secret is required to issue tokens")

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "token",
		Short:         "Print a JWT for the control API",
		RunE:          runToken,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(cmd)
	cmd.Flags().String(tokenSubjectKey, "obs-remote", "Subject to put in the token")
	cmd.Flags().Duration(tokenTTLKey, 0, "How long the token is valid, 0 never expires")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	config, err := config.LoadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if config.Auth.JWTSecret == "" {
		return ErrJWTSecretRequired
	}

	subject, err := cmd.Flags().GetString(tokenSubjectKey)
	if err != nil {
		return fmt.Errorf("failed to get subject: %w", err)
	}
	ttl, err := cmd.Flags().GetDuration(tokenTTLKey)
	if err != nil {
		return fmt.Errorf("failed to get ttl: %w", err)
	}

	token, err := utils.GenerateJWT(config.Auth.JWTSecret, subject, ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
