package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/vidrec/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the videos, user_behaviors and user_video_watch_histories tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if appCfg.Source.Kind != "sql" {
			return fmt.Errorf("migrate: source.kind is %q, only sql sources have a schema", appCfg.Source.Kind)
		}
		ctx := cmd.Context()
		s, err := store.OpenSQL(ctx, appCfg.Source.Driver, appCfg.Source.DSN)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", s.Name())
		return nil
	},
}
