package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/server"
	"github.com/chitragupt/chitragupt/internal/service"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the JSON API exposing the full operation surface: uploads,
review requests, finalization, approval, chat, and credit top-ups.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("jwt-secret", "", "secret for signing API tokens")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.jwt_secret", cmd.Flags().Lookup("jwt-secret"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	secret := viper.GetString("server.jwt_secret")
	if secret == "" {
		return fmt.Errorf("server.jwt_secret is required (flag --jwt-secret or CHITRAGUPT_SERVER_JWT_SECRET)")
	}

	return withEngine(cmd.Context(), func(_ context.Context, e *engine.WorkflowEngine, _ service.Store) error {
		addr := viper.GetString("server.addr")
		slog.Info("Starting API server", "addr", addr)

		apiServer := server.New(e, server.Config{
			Addr:      addr,
			JWTSecret: secret,
		})
		return apiServer.Run()
	})
}
