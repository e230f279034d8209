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

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Request, accept, and finalize contract reviews",
	}

	cmd.AddCommand(reviewRequestCmd())
	cmd.AddCommand(reviewQueueCmd())
	cmd.AddCommand(reviewAcceptCmd())
	cmd.AddCommand(reviewRejectCmd())
	cmd.AddCommand(reviewFinalizeCmd())
	cmd.AddCommand(reviewNoteCmd())

	return cmd
}

func reviewRequestCmd() *cobra.Command {
	var (
		asAccount    string
		auditorID    string
		budget       int64
		concerns     string
		shareSummary bool
	)

	cmd := &cobra.Command{
		Use:   "request <contract-id>",
		Short: "Request a professional review from an auditor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				request, err := e.RequestReview(ctx, identity, engine.ReviewRequestParams{
					ContractID:     args[0],
					AuditorID:      auditorID,
					Budget:         budget,
					ClientConcerns: concerns,
					ShareSummary:   shareSummary,
				})
				if err != nil {
					return err
				}

				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Review requested: %s", request.ID)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	cmd.Flags().StringVar(&auditorID, "auditor", "", "auditor account id")
	cmd.Flags().Int64Var(&budget, "budget", 0, "proposed budget")
	cmd.Flags().StringVar(&concerns, "concerns", "", "specific concerns for the auditor")
	cmd.Flags().BoolVar(&shareSummary, "share-summary", true, "share the sanitized AI summary")
	_ = cmd.MarkFlagRequired("auditor")

	return cmd
}

func reviewQueueCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List pending review requests addressed to you",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}

				requests, err := e.ListReviewQueue(ctx, identity)
				if err != nil {
					return err
				}
				if len(requests) == 0 {
					fmt.Println(cli.SubtleStyle.Render("No pending requests."))
					return nil
				}

				for _, request := range requests {
					fmt.Printf("%s  risk=%d (%s)  budget=%d  %s\n",
						request.ID, request.RiskScore, request.Severity, request.Budget, request.ContractTitle)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func reviewAcceptCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "accept <request-id>",
		Short: "Accept a pending review request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.AcceptReview(ctx, identity, args[0]); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Review accepted"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func reviewRejectCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a pending review request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.RejectReview(ctx, identity, args[0]); err != nil {
					return err
				}
				fmt.Println(cli.FormatWarning("Review rejected"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}

func reviewFinalizeCmd() *cobra.Command {
	var (
		asAccount string
		verdict   string
		feedback  string
	)

	cmd := &cobra.Command{
		Use:   "finalize <contract-id>",
		Short: "Submit a final verdict for client approval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.FinalizeReview(ctx, identity, args[0], model.Verdict(verdict), feedback); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Review finalized, awaiting client approval"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	cmd.Flags().StringVar(&verdict, "verdict", "", `final verdict ("Approved", "Approved with Revisions", "Action Required")`)
	cmd.Flags().StringVar(&feedback, "feedback", "", "final feedback text")
	_ = cmd.MarkFlagRequired("verdict")
	_ = cmd.MarkFlagRequired("feedback")

	return cmd
}

func reviewNoteCmd() *cobra.Command {
	var asAccount string

	cmd := &cobra.Command{
		Use:   "note <contract-id> <text>",
		Short: "Leave an interim note on a contract under review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.WorkflowEngine, store service.Store) error {
				identity, err := identityFor(ctx, store, asAccount)
				if err != nil {
					return err
				}
				if err := e.AddReviewNote(ctx, identity, args[0], args[1]); err != nil {
					return err
				}
				fmt.Println(cli.FormatSuccess("Note added"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asAccount, "as", "", "acting account id")
	return cmd
}
