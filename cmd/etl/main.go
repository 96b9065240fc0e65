package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/linkedin-analytics-etl/internal/config"
	"github.com/ignite/linkedin-analytics-etl/internal/notify"
	"github.com/ignite/linkedin-analytics-etl/internal/pipeline"
	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
	"github.com/ignite/linkedin-analytics-etl/internal/queue"
	"github.com/ignite/linkedin-analytics-etl/internal/status"
	"github.com/ignite/linkedin-analytics-etl/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single import batch and exit")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q, err := queue.New(ctx, queue.Config{
		Bucket:          cfg.Storage.S3Bucket,
		Region:          cfg.Storage.S3Region,
		Profile:         cfg.Storage.AWSProfile,
		InboundPrefix:   cfg.Storage.IncomingPrefix,
		ProcessedPrefix: cfg.Storage.ProcessedPrefix,
		MaxFileSize:     int64(cfg.Storage.MaxFileSizeMB) * 1024 * 1024,
	})
	if err != nil {
		logger.Error("failed to init S3 queue", "error", err.Error())
		os.Exit(1)
	}

	var sfStore *store.Snowflake
	if cfg.Snowflake.Enabled {
		sf, err := store.OpenSnowflake(store.SnowflakeConfig{
			Account:   cfg.Snowflake.Account,
			User:      cfg.Snowflake.User,
			Password:  cfg.Snowflake.Password,
			Database:  cfg.Snowflake.Database,
			Schema:    cfg.Snowflake.Schema,
			Warehouse: cfg.Snowflake.Warehouse,
		})
		if err != nil {
			logger.Error("failed to connect to snowflake", "error", err.Error())
			os.Exit(1)
		}
		defer sf.Close()
		sfStore = sf
	}

	var primary, mirror store.TabularStore
	var db *sql.DB
	switch {
	case cfg.Database.Enabled:
		pg, err := store.OpenPostgres(cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err.Error())
			os.Exit(1)
		}
		defer pg.Close()
		primary = pg
		db = pg.DB()
		logger.Info("postgres destination connected")
		if sfStore != nil {
			mirror = sfStore
			logger.Info("snowflake mirror connected")
		}
	case sfStore != nil:
		primary = sfStore
		logger.Info("snowflake destination connected")
	default:
		logger.Error("no destination store enabled")
		os.Exit(1)
	}

	var notifier pipeline.Notifier
	if cfg.Notifications.Enabled {
		n, err := notify.New(ctx, notify.Config{
			AccessKey: cfg.Notifications.AccessKey,
			SecretKey: cfg.Notifications.SecretKey,
			Region:    cfg.Notifications.Region,
			From:      cfg.Notifications.FromAddress,
			FromName:  "LinkedIn Analytics ETL",
			To:        cfg.Notifications.ToAddresses,
		})
		if err != nil {
			logger.Error("failed to init SES notifier", "error", err.Error())
			os.Exit(1)
		}
		notifier = n
	}

	var statusServer *status.Server
	if cfg.Server.Enabled {
		statusServer = status.NewServer(db)
		go func() {
			if err := statusServer.ListenAndServe(ctx, cfg.Server.Port); err != nil {
				logger.Error("status server stopped", "error", err.Error())
			}
		}()
	}

	p := pipeline.New(pipeline.Options{
		Queue:         q,
		Store:         primary,
		Mirror:        mirror,
		Notifier:      notifier,
		Status:        statusServer,
		MaxBatchFiles: cfg.Storage.MaxBatchFiles,
		TimeBudget:    cfg.Pipeline.TimeBudget(),
		SummaryPrefix: cfg.Storage.ProcessedPrefix + "runs/",
	})

	if *once {
		if _, err := p.Run(ctx); err != nil {
			logger.Error("run failed", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	logger.Info("scheduler started", "interval", cfg.Pipeline.Interval().String())
	ticker := time.NewTicker(cfg.Pipeline.Interval())
	defer ticker.Stop()

	// First run immediately, then on the ticker.
	if _, err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err.Error())
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			if _, err := p.Run(ctx); err != nil {
				logger.Error("run failed", "error", err.Error())
			}
		}
	}
}
