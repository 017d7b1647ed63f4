package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/san-kum/world3/internal/server"
)

var addr string

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the scenario API and websocket stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := loadTables()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return server.New(tables, slog.Default()).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":"+envOr("PORT", "8080"), "listen address")
	return cmd
}
