package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitragupt/chitragupt/internal/cli"
	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/model"
	"github.com/chitragupt/chitragupt/internal/service"
)

func registerCmd() *cobra.Command {
	var (
		name      string
		email     string
		role      string
		maxActive int
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, _ service.Store) error {
				account, err := e.RegisterAccount(ctx, engine.RegisterParams{
					DisplayName:        name,
					Email:              email,
					Role:               model.Role(role),
					MaxActiveContracts: maxActive,
				})
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Registered %s account %s", account.Role, account.ID)))
				fmt.Printf("  balance: %d credits\n", account.CreditBalance)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&role, "role", "client", "account role (client, auditor, admin)")
	cmd.Flags().IntVar(&maxActive, "max-active", 0, "auditor capacity (0 = unlimited)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
