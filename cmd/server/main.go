package main

import (
	"context"
	"log"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskbuddy/backend/api/handler"
	"github.com/taskbuddy/backend/internal/config"
	"github.com/taskbuddy/backend/internal/infrastructure/notify"
	"github.com/taskbuddy/backend/internal/infrastructure/recordstore"
	redisInfra "github.com/taskbuddy/backend/internal/infrastructure/redis"
	"github.com/taskbuddy/backend/internal/middleware"
	"github.com/taskbuddy/backend/internal/router"
	"github.com/taskbuddy/backend/internal/services"
	"github.com/taskbuddy/backend/internal/services/lifecycle"
	"github.com/taskbuddy/backend/pkg/httpcontext"
	"github.com/taskbuddy/backend/pkg/logger"
	"github.com/taskbuddy/backend/repository/record"
	"github.com/taskbuddy/backend/usecase"
	chatUC "github.com/taskbuddy/backend/usecase/chat"
	matchUC "github.com/taskbuddy/backend/usecase/match"
	reminderUC "github.com/taskbuddy/backend/usecase/reminder"
	shareUC "github.com/taskbuddy/backend/usecase/share"
	taskUC "github.com/taskbuddy/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	records, err := recordstore.OpenBolt(cfg.Records.Path, cfg.Records.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open record store", zap.Error(err))
	}
	manager.Register("records", func(ctx context.Context) error {
		return records.Close()
	})

	// The notification outbox is optional; without Redis notifications
	// are dropped rather than queued.
	var notifier usecase.Notifier = notify.Noop{}
	var client *goRedis.Client
	if cfg.Redis.URL != "" {
		client, err = redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Warn("notification outbox unavailable", zap.Error(err))
			client = nil
		} else {
			notifier = notify.NewRedisOutbox(client, cfg.Redis.NotifyTTL)
			manager.Register("redis", func(ctx context.Context) error {
				return client.Close()
			})
		}
	}

	userRepo := record.NewUserRepository(records)
	taskRepo := record.NewTaskRepository(records)
	buddyRepo := record.NewBuddyRepository(records)
	chatRepo := record.NewChatRepository(records)
	reminderRepo := record.NewReminderRepository(records)
	engagementRepo := record.NewEngagementRepository(records)

	sharing := shareUC.New(taskRepo, zapLogger)
	chats := chatUC.New(chatRepo, notifier, zapLogger)
	reminders := reminderUC.New(reminderRepo, zapLogger)
	matching := matchUC.New(buddyRepo, userRepo, sharing, zapLogger)
	tasks := taskUC.New(taskRepo, buddyRepo, sharing, chats, reminders, zapLogger)

	engagement := services.NewEngagementMonitor(
		taskRepo,
		buddyRepo,
		userRepo,
		engagementRepo,
		chats,
		zapLogger,
		services.MonitorConfig{
			Interval:          cfg.Engagement.Interval,
			CongratsCooldown:  cfg.Engagement.CongratsCooldown,
			EncourageCooldown: cfg.Engagement.EncourageCooldown,
			StaleAfter:        cfg.Engagement.StaleAfter,
		},
	)
	engagement.Start()
	manager.Register("engagement_monitor", func(ctx context.Context) error {
		engagement.Stop(ctx)
		return nil
	})

	unread := services.NewUnreadRefresher(userRepo, chats, zapLogger, cfg.Unread.Interval)
	unread.Start()
	manager.Register("unread_refresher", func(ctx context.Context) error {
		unread.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:     apiHandler.NewUserHandler(userRepo, ctxAdapter, zapLogger),
		Task:     apiHandler.NewTaskHandler(tasks, userRepo, ctxAdapter, zapLogger),
		Buddy:    apiHandler.NewBuddyHandler(matching, userRepo, ctxAdapter, zapLogger),
		Chat:     apiHandler.NewChatHandler(chats, userRepo, unread, ctxAdapter, zapLogger),
		Reminder: apiHandler.NewReminderHandler(reminders, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(records, client, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
