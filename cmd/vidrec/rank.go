package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/logging"
)

var (
	rankUserID  int64
	rankTopN    int
	rankPublish bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the catalog for one user",
	Example: `  vidrec rank --user 42 --top-n 10
  vidrec rank --user 42 --publish`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appCfg, rankPublish)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		topN := rankTopN
		if !cmd.Flags().Changed("top-n") {
			topN = appCfg.Rank.DefaultTopN()
		}
		req := core.RankRequest{UserID: rankUserID, TopN: topN}
		ctx = logging.WithRequest(ctx, a.logger, logging.NewRequestID())

		var videos []core.Video
		if rankPublish {
			videos, err = a.engine.Deliver(ctx, req)
		} else {
			videos, err = a.engine.Recommend(ctx, req)
		}
		if err != nil {
			return err
		}
		if rankPublish && a.publisher != nil && a.publisher.Name() == "writer" {
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if videos == nil {
			videos = []core.Video{}
		}
		return enc.Encode(videos)
	},
}

func init() {
	rankCmd.Flags().Int64Var(&rankUserID, "user", 0, "User id to rank for (required)")
	rankCmd.Flags().IntVar(&rankTopN, "top-n", core.DefaultTopN, "Number of videos to return")
	rankCmd.Flags().BoolVar(&rankPublish, "publish", false, "Publish the result to the configured delivery")
	_ = rankCmd.MarkFlagRequired("user")
}
