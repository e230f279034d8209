package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chitragupt/chitragupt/internal/cli"
	"github.com/chitragupt/chitragupt/internal/engine"
	"github.com/chitragupt/chitragupt/internal/service"
)

func contractsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contracts",
		Short: "Upload and manage contracts",
	}

	cmd.AddCommand(contractsUploadCmd())
	cmd.AddCommand(contractsListCmd())
	cmd.AddCommand(contractsShowCmd())
	cmd.AddCommand(contractsApproveCmd())
	cmd.AddCommand(contractsReviseCmd())
	cmd.AddCommand(contractsDeleteCmd())

	return cmd
}

func contractsUploadCmd() *cobra.Command {
	var (
		asAccount string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for analysis (costs 1 credit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				uploadTitle := title
				if uploadTitle == "" {
					uploadTitle = args[0]
				}

				contract, err := e.UploadAndAnalyze(ctx, identity, uploadTitle, args[0], document)
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatTitle("Analysis complete"))
				fmt.Printf("  contract:   %s\n", contract.ID)
				fmt.Printf("  type:       %s\n", contract.Analysis.ContractType)
				fmt.Printf("  risk score: %d (%s)\n", contract.Analysis.RiskScore, contract.Analysis.Severity)
				for _, finding := range contract.Analysis.RiskAssessment {
					fmt.Printf("  - %s\n", finding)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	cmd.Flags().StringVar(&title, "title", "", "contract title (default: file name)")
	return cmd
}

func contractsListCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your contracts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				contracts, err := e.ListContracts(ctx, identity)
				if err != nil {
					return err
				}
				if len(contracts) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No contracts yet."))
					return nil
				}

				for _, contract := range contracts {
					fmt.Printf("%s  %-18s  %s\n", contract.ID, contract.Status, contract.Title)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func contractsShowCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "show <contract-id>",
		Short: "Show a contract and its review state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				contract, err := e.GetContract(ctx, identity, args[0])
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatTitle(contract.Title))
				fmt.Printf("  status:   %s\n", contract.Status)
				fmt.Printf("  auditors: %v\n", contract.AssignedAuditorIDs)
				if contract.FinalFeedback != nil {
					fmt.Printf("  verdict:  %s: %s\n", contract.FinalFeedback.Verdict, contract.FinalFeedback.Feedback)
				}
				for _, note := range contract.Notes {
					fmt.Printf("  note (%s): %s\n", note.AuditorID, note.Text)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func contractsApproveCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "approve <contract-id>",
		Short: "Approve a finalized review, completing the contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.ApproveCompletion(ctx, identity, args[0]); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Contract completed"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func contractsReviseCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "revise <contract-id>",
		Short: "Send a finalized review back for revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.RequestRevisions(ctx, identity, args[0]); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Contract returned to review"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func contractsDeleteCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "delete <contract-id>",
		Short: "Delete a contract (blocked while under review)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.DeleteContract(ctx, identity, args[0]); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Contract deleted"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}
