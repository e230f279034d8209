package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitragupt/chitragupt/internal/cli"
	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/service"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Discuss a contract with its reviewers",
	}

	cmd.AddCommand(chatSendCmd())
	cmd.AddCommand(chatHistoryCmd())

	return cmd
}

func chatSendCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "send <contract-id> <text>",
		Short: "Send a chat message on a contract",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				message, err := e.SendChatMessage(ctx, identity, args[0], args[1])
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Sent message #%d", message.Seq)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func chatHistoryCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "history <contract-id>",
		Short: "Show the chat transcript for a contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				messages, err := e.ListChatMessages(ctx, identity, args[0])
				if err != nil {
					return err
				}
				if len(messages) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No messages yet."))
					return nil
				}

				for _, message := range messages {
					fmt.Printf("[%s] %s: %s\n",
						message.Timestamp.Format("2006-01-02 15:04:05"),
						message.SenderName, message.Text)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}
