package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitragupt/chitragupt/internal/cli"
	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/service"
)

func creditsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Inspect and adjust credit balances",
	}

	cmd.AddCommand(creditsBalanceCmd())
	cmd.AddCommand(creditsAddCmd())

	return cmd
}

func creditsBalanceCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "balance [account-id]",
		Short: "Show an account's credit balance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				accountID := identity.AccountID
				if len(args) == 1 {
					accountID = args[0]
				}

				account, err := e.GetAccount(ctx, identity, accountID)
				if err != nil {
					return err
				}

				fmt.Printf("%s  %d credits\n", account.DisplayName, account.CreditBalance)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func creditsAddCmd() *cobra.Command {
	var (
		asAccount string
		amount    int64
	)

	cmd := &cobra.Command{
		Use:   "add <account-id>",
		Short: "Grant credits to an account (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.AddCredits(ctx, identity, args[0], amount); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %d credits to %s", amount, args[0])))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "credits to add")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
