package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	v1 "github.com/Ishwar-meena/whatsappchat/cmd/api/router/v1"
	"github.com/Ishwar-meena/whatsappchat/internal/config"
	cacheadapter "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/cache/adapter"
	cacheport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/cache/port"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/database"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/logger"
	mediaadapter "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/adapter"
	queueadapter "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/queue/adapter"
	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	chatusecase "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
	chatadapter "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/adapter"
	chatrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/persistence/repository/port"
	chathttp "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/presentation/http"
	statustask "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/task"
	statususecase "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
	statusadapter "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/adapter"
	statusrepo "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/persistence/repository/port"
	statushttp "github.com/Ishwar-meena/whatsappchat/internal/pkg/status/presentation/http"
	useradapter "github.com/Ishwar-meena/whatsappchat/internal/repository/adapter"
	userrepo "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable stores: postgres when configured, in-memory for local dev.
	var (
		users    userrepo.UserRepository
		chats    chatrepo.ChatRepository
		statuses statusrepo.StatusRepository
	)
	if cfg.DatabaseURL != "" {
		connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := database.Connect(connCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("database connect failed")
		}
		defer pool.Close()
		users = useradapter.NewPgUserRepository(pool)
		chats = chatadapter.NewPgChatRepository(pool)
		statuses = statusadapter.NewPgStatusRepository(pool)
	} else {
		log.Warn().Msg("DB_URL is empty, running on in-memory stores")
		users = useradapter.NewMemoryUserRepository()
		chats = chatadapter.NewMemoryChatRepository()
		statuses = statusadapter.NewMemoryStatusRepository()
	}

	// Reconcile flags left behind by a previous crash.
	if err := users.MarkAllOffline(ctx); err != nil {
		log.Warn().Err(err).Msg("mark all offline failed")
	}

	// Redis, when configured, backs the last-seen cache, the cross-instance
	// event fanout and the asynq queue.
	var (
		cache  cacheport.Cache
		fanout *realtime.Fanout
	)
	if cfg.RedisURL != "" {
		rdb, err := cacheadapter.Dial(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rdb.Close()
		cache = cacheadapter.NewRedisCache(rdb)
		fanout = realtime.NewFanout(rdb, log)
	}

	presence := &presenceRecorder{users: users, cache: cache, ttl: cfg.LastSeenTTL}
	registry := realtime.NewRegistry(presence, log)
	defer registry.Close()
	if fanout != nil {
		fanout.Bind(ctx, registry)
	}
	typing := realtime.NewTypingTracker(registry, cfg.TypingExpiry, log)

	uploader, err := mediaadapter.NewLocalUploader(cfg.MediaDir, cfg.MediaBaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("media storage init failed")
	}

	deps := v1.Dependencies{
		Chat: chathttp.Dependencies{
			Registry:      registry,
			Typing:        typing,
			Uploader:      uploader,
			SendMessage:   chatusecase.NewSendMessageUseCase(chats, users, registry, log),
			GetMessages:   chatusecase.NewGetMessagesUseCase(chats, users, registry, log),
			MarkRead:      chatusecase.NewMarkReadUseCase(chats, registry, log),
			DeleteMessage: chatusecase.NewDeleteMessageUseCase(chats, registry, log),
			React:         chatusecase.NewReactUseCase(chats, users, registry, log),
			Conversations: chatusecase.NewListConversationsUseCase(chats, users, log),
			UserStatus:    chatusecase.NewGetUserStatusUseCase(users, registry, cache, cfg.LastSeenTTL, log),
			SendBuffer:    cfg.SendBufferSize,
			Log:           log,
		},
		Status: statushttp.Dependencies{
			Uploader: uploader,
			Create:   statususecase.NewCreateStatusUseCase(statuses, users, registry, cfg.StatusTTL, log),
			List:     statususecase.NewListStatusesUseCase(statuses, users, log),
			View:     statususecase.NewViewStatusUseCase(statuses, users, registry, log),
			Delete:   statususecase.NewDeleteStatusUseCase(statuses, registry, log),
		},
	}

	// The expiry sweep runs through asynq so exactly one instance of the
	// process group executes it per interval.
	if cfg.RedisURL != "" {
		startSweep(ctx, cfg, statuses, log)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(cfg.MediaBaseURL, cfg.MediaDir)

	v1.RegisterRoutes(r, deps)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// startSweep launches the asynq worker and seeds the self-rescheduling sweep.
func startSweep(ctx context.Context, cfg *config.Config, statuses statusrepo.StatusRepository, log zerolog.Logger) {
	client, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("asynq client init failed")
	}
	server, err := queueadapter.NewAsynqServer(cfg.RedisURL, 0, log)
	if err != nil {
		log.Fatal().Err(err).Msg("asynq server init failed")
	}

	sweep := statususecase.NewSweepExpiredUseCase(statuses, log)
	statustask.RegisterSweepStatusTask(server, client, sweep, cfg.SweepInterval, log)

	go func() {
		if err := server.Run(ctx); err != nil {
			log.Error().Err(err).Msg("asynq server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	if _, err := statustask.Enqueue(ctx, client, cfg.SweepInterval); err != nil {
		log.Warn().Err(err).Msg("seed sweep enqueue failed")
	}
}

// presenceRecorder fans a presence write out to the durable user store and,
// when available, the last-seen cache so status queries stay fresh.
type presenceRecorder struct {
	users userrepo.UserRepository
	cache cacheport.Cache
	ttl   time.Duration
}

func (p *presenceRecorder) SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	if p.cache != nil {
		_ = p.cache.Set(ctx, "lastseen:"+userID, lastSeen.Format(time.RFC3339Nano), p.ttl)
	}
	return p.users.SetPresence(ctx, userID, online, lastSeen)
}

// requestLogger emits one structured line per HTTP request.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	httpLog := log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		httpLog.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
