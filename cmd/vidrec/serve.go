package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/vidrec/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rankings over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appCfg, appCfg.Delivery.Kind != "none")
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		srv := server.New(a.engine, a.logger, server.Options{
			Addr:            appCfg.HTTP.Addr,
			ReadTimeout:     appCfg.HTTP.ReadTimeout,
			WriteTimeout:    appCfg.HTTP.WriteTimeout,
			ShutdownTimeout: appCfg.HTTP.ShutdownTimeout,
			DefaultTopN:     appCfg.Rank.DefaultTopN(),
		})
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	if err := v.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr")); err != nil {
		panic(err)
	}
}
