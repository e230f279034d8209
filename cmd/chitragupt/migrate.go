package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitragupt/chitragupt/internal/cli"
	"github.com/chitragupt/chitragupt/internal/common"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			path, err := databasePath()
			if err != nil {
				return err
			}
			common.LogInfo("Migrations applied", common.Fields{"path": path})

			fmt.Println(cli.FormatSuccess("Database is up to date"))
			return nil
		},
	}
}
