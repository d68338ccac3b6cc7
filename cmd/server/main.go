package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Spok95/academic-records/internal/app"
	"github.com/Spok95/academic-records/internal/auth"
	"github.com/Spok95/academic-records/internal/config"
	"github.com/Spok95/academic-records/internal/db"
	"github.com/Spok95/academic-records/internal/enrollment"
	"github.com/Spok95/academic-records/internal/jobs"
	"github.com/Spok95/academic-records/internal/logging"
	"github.com/Spok95/academic-records/internal/observability"
	"github.com/Spok95/academic-records/internal/session"
)

const release = "academic-records@dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("нет .env файла, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Sugar.Warnw("sentry не инициализирован", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Sugar.Fatalw("подключение к БД", "err", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		lg.Sugar.Fatalw("миграции", "err", err)
	}

	store := db.New(database)

	if cfg.AdminPassword != "" {
		digest, err := auth.Hash(cfg.AdminPassword)
		if err != nil {
			lg.Sugar.Fatalw("хэширование пароля администратора", "err", err)
		}
		created, err := store.SeedAdmin(ctx, cfg.AdminUsername, digest)
		if err != nil {
			lg.Sugar.Fatalw("seed администратора", "err", err)
		}
		if created {
			lg.Sugar.Infow("создан bootstrap-администратор", "username", cfg.AdminUsername)
		}
	}

	sessions := session.NewStore()
	authSvc := auth.NewService(store)
	ledger := enrollment.NewLedger(store)

	app.StartHTTP(ctx, cfg.HTTPAddr, app.Deps{
		DB:       database,
		Log:      lg.Sugar,
		Auth:     authSvc,
		Sessions: sessions,
		Ledger:   ledger,
		Store:    store,
		Location: cfg.Location,
	})
	lg.Sugar.Infow("http сервер запущен", "addr", cfg.HTTPAddr)

	runner := jobs.New(ctx)
	runner.Every(1*time.Minute, "refresh_occupancy", jobs.RefreshOccupancy(store))

	<-ctx.Done()
	lg.Sugar.Info("остановка по сигналу")
}
