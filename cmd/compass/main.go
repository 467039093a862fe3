package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/careercompass/compass/internal/ai"
	"github.com/careercompass/compass/internal/config"
	"github.com/careercompass/compass/internal/db"
	"github.com/careercompass/compass/internal/filestore"
	"github.com/careercompass/compass/internal/handler"
	"github.com/careercompass/compass/internal/job"
	"github.com/careercompass/compass/internal/middleware"
	"github.com/careercompass/compass/internal/repo"
	"github.com/careercompass/compass/internal/schedule"
	"github.com/careercompass/compass/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "compass",
		Short: "career compass backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run career compass server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)

	userRepo := repo.NewUserRepo(conn)
	profileRepo := repo.NewProfileRepo(conn)
	chunkRepo := repo.NewChunkRepo(conn)
	roadmapRepo := repo.NewRoadmapRepo(conn)

	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	aiManager := ai.NewManager(aiProvider, ai.ManagerConfig{
		GenerateModel: cfg.AI.GenerateModel,
		EmbedModel:    cfg.AI.EmbedModel,
		Timeout:       cfg.AI.Timeout,
	})

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	profileService := service.NewProfileService(profileRepo)
	ingestService := service.NewIngestService(profileRepo, chunkRepo, ai.NewChunker(), aiManager, store)
	chatService := service.NewChatService(aiManager, chunkRepo, aiManager)
	roadmapService := service.NewRoadmapService(aiManager, roadmapRepo, cfg.DebugDumpPath)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Profiles:  handler.NewProfileHandler(profileService),
		Chat:      handler.NewChatHandler(ingestService, chatService),
		Roadmaps:  handler.NewRoadmapHandler(roadmapService, profileService),
		JWTSecret: []byte(cfg.JWTSecret),
		AIWindow:  2 * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.AllowedOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.ReindexCron != "" {
		reindexJob := job.NewChunkReindexJob(profileRepo, chunkRepo, ingestService, 0)
		if err := scheduler.AddJob(reindexJob, cfg.ReindexCron); err != nil {
			return fmt.Errorf("schedule reindex job: %w", err)
		}
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
