package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/assistant"
	"github.com/rogersnm/contractme/internal/model"
	"github.com/rogersnm/contractme/internal/server"
	"github.com/rogersnm/contractme/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document and deadline engine with its HTTP API",
	Long: "Run the in-memory engine and expose it over HTTP. Other commands talk to this " +
		"process; data lives only as long as it runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = cfg.Listen
		}
		if logger.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		files, err := contentStore()
		if err != nil {
			return err
		}
		st := store.New(store.WithLogger(logger))
		srv := server.New(st, server.Options{
			Categories:     model.NewCategories(cfg.Categories...),
			Content:        files,
			Assistant:      assistant.NewCanned(nil),
			Logger:         logger,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RecentDays:     cfg.RecentDays,
			UpcomingDays:   cfg.UpcomingDays,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "address to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
