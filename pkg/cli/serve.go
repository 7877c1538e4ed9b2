package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/cli/config"
	controller "github.com/motorq-lab/motorq/pkg/controller/http"
	"github.com/motorq-lab/motorq/pkg/service/analytics"
	"github.com/motorq-lab/motorq/pkg/service/llm"
	"github.com/motorq-lab/motorq/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg     config.Server
		firestoreCfg  config.Firestore
		geminiCfg     config.Gemini
		categoriesCfg config.Categories
	)

	flags := joinFlags(
		serverCfg.Flags(),
		firestoreCfg.Flags(),
		geminiCfg.Flags(),
		categoriesCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting motorq server",
				slog.Any("server", serverCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("gemini", geminiCfg),
				slog.Any("categories", categoriesCfg),
			)

			categories, err := categoriesCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			// AI diagnosis is optional; analyze requests fail with a clear
			// error when no LLM is configured
			var diagnosis *llm.DiagnosisService
			if client := geminiCfg.ConfigureOptional(ctx, logger); client != nil {
				diagnosis = llm.NewDiagnosisService(client)
			}

			authUC := usecase.NewAuth(repo)
			issueUC := usecase.NewIssue(repo, diagnosis, categories)
			analyticsUC := usecase.NewAnalytics(repo, analytics.NewAggregator(categories.Palette()))
			adminUC := usecase.NewAdmin(repo)

			server := controller.NewServer(ctx, serverCfg.Addr, authUC, issueUC, analyticsUC, adminUC)

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
