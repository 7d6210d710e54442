// Package main is the entry point for the Mindfulness Hub API server.
//
// The server carries the full surface of the platform:
//   - account registration, login and profiles
//   - meditation session lifecycle (start, pause, resume, complete)
//   - progression statistics (experience, levels, streaks)
//   - the social graph (friendships and groups)
//   - leaderboards and the daily quote
//
// Composition happens here and only here: repositories, caches, command and
// query handlers, the event bus, the scheduler and the HTTP server are all
// constructed in run() and wired by hand.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chrysalis-app/mindfulness-hub/config"
	"github.com/chrysalis-app/mindfulness-hub/internal/application/command"
	"github.com/chrysalis-app/mindfulness-hub/internal/application/eventhandler"
	"github.com/chrysalis-app/mindfulness-hub/internal/application/query"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/messaging"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/persistence/postgres"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/persistence/redis"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/scheduler"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/scheduler/jobs"
	"github.com/chrysalis-app/mindfulness-hub/internal/infrastructure/security"
	httpiface "github.com/chrysalis-app/mindfulness-hub/internal/interface/http"
	"github.com/chrysalis-app/mindfulness-hub/internal/interface/http/handlers"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
	"github.com/chrysalis-app/mindfulness-hub/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.Observability.AddCaller,
	})
	log.Info("starting mindfulness hub server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")

	var dbConn *postgres.Connection
	startup := retry.StartupRetrier()
	err = startup.Do(ctx, func(ctx context.Context) error {
		var connErr error
		if cfg.Database.URL != "" {
			dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		} else {
			// Local development against a default postgres.
			dbConn, connErr = postgres.NewConnection(ctx, postgres.DefaultConfig())
		}
		return connErr
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS
	// ─────────────────────────────────────────────────────────────────────────
	// Redis is optional: without it the API runs uncached and login
	// throttling is disabled.
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to redis")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		// A few quick attempts; redis stays optional, so unreachable
		// just means running uncached.
		err = retry.New(
			retry.WithMaxAttempts(3),
			retry.WithInitialDelay(time.Second),
		).Do(ctx, func(ctx context.Context) error {
			var cacheErr error
			redisCache, cacheErr = redis.NewCache(redisCfg)
			return cacheErr
		})
		if err != nil {
			log.Warn("redis unavailable, running without cache", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("redis connection established")
		}
	}

	var (
		boardCache   *redis.LeaderboardCache
		quoteCache   *redis.QuoteCache
		loginLimiter *redis.AttemptLimiter
	)
	if redisCache != nil {
		boardCache = redis.NewLeaderboardCache(redisCache)
		quoteCache = redis.NewQuoteCache(redisCache)
		loginLimiter = redis.NewAttemptLimiter(redisCache,
			cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	accountRepo := postgres.NewAccountRepository(dbConn)
	sessionLedger := postgres.NewSessionRepository(dbConn)
	friendshipRepo := postgres.NewFriendshipRepository(dbConn)
	groupRepo := postgres.NewGroupRepository(dbConn)
	leaderboardRepo := postgres.NewLeaderboardRepository(dbConn)
	quoteRepo := postgres.NewQuoteRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. SECURITY
	// ─────────────────────────────────────────────────────────────────────────
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busCfg := messaging.DefaultConfig()
	busCfg.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		_ = eventBus.Close()
	}()

	if boardCache != nil {
		onCompleted := eventhandler.NewOnSessionCompleted(boardCache, log)
		if err := eventBus.Subscribe(shared.EventSessionCompleted, onCompleted); err != nil {
			return fmt.Errorf("failed to subscribe session handler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	registerAccount := command.NewRegisterAccountHandler(accountRepo, hasher, tokens)
	authenticate := command.NewAuthenticateHandler(accountRepo, hasher, tokens)
	updateProfile := command.NewUpdateProfileHandler(accountRepo)
	startSession := command.NewStartSessionHandler(sessionLedger, accountRepo)
	pauseSession := command.NewPauseSessionHandler(sessionLedger)
	resumeSession := command.NewResumeSessionHandler(sessionLedger)
	completeSession := command.NewCompleteSessionHandler(sessionLedger, eventBus, log)
	sendFriendRequest := command.NewSendFriendRequestHandler(friendshipRepo, accountRepo)
	acceptFriendRequest := command.NewAcceptFriendRequestHandler(friendshipRepo)
	declineFriendRequest := command.NewDeclineFriendRequestHandler(friendshipRepo)
	removeFriend := command.NewRemoveFriendHandler(friendshipRepo)
	createGroup := command.NewCreateGroupHandler(groupRepo)
	joinGroup := command.NewJoinGroupHandler(groupRepo)
	leaveGroup := command.NewLeaveGroupHandler(groupRepo)
	addQuote := command.NewAddQuoteHandler(quoteRepo)

	// Nil caches are tolerated by the query handlers (they fall through to
	// the repositories), but only via typed-nil-free interfaces.
	lbCache := leaderboardCacheOrNil(boardCache)
	dqCache := quoteCacheOrNil(quoteCache)

	getProfile := query.NewGetProfileHandler(accountRepo)
	getLeaderboard := query.NewGetLeaderboardHandler(leaderboardRepo, groupRepo, lbCache, log)
	getAccountStats := query.NewGetAccountStatsHandler(accountRepo, leaderboardRepo)
	getSessionHistory := query.NewGetSessionHistoryHandler(sessionLedger)
	getFriends := query.NewGetFriendsHandler(friendshipRepo, accountRepo)
	getPendingRequests := query.NewGetPendingRequestsHandler(friendshipRepo, accountRepo)
	getGroupMembers := query.NewGetGroupMembersHandler(groupRepo, accountRepo)
	listGroups := query.NewListGroupsHandler(groupRepo)
	getDailyQuote := query.NewGetDailyQuoteHandler(quoteRepo, dqCache, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(log)

		if boardCache != nil {
			rebuild := jobs.NewRebuildLeaderboardCache(leaderboardRepo, boardCache, log)
			if err := sched.Register(rebuild, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
				return fmt.Errorf("failed to register leaderboard job: %w", err)
			}
		}
		if quoteCache != nil {
			refresh := jobs.NewRefreshDailyQuote(quoteRepo, quoteCache, log)
			if err := sched.Register(refresh, scheduler.NewDailySchedule(0)); err != nil {
				return fmt.Errorf("failed to register quote job: %w", err)
			}
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("postgres", dbConn.Ping)
	if redisCache != nil {
		health.AddCheck("redis", redisCache.Ping)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpiface.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins

	deps := httpiface.Dependencies{
		RegisterAccount:      registerAccount,
		Authenticate:         authenticate,
		UpdateProfile:        updateProfile,
		StartSession:         startSession,
		PauseSession:         pauseSession,
		ResumeSession:        resumeSession,
		CompleteSession:      completeSession,
		SendFriendRequest:    sendFriendRequest,
		AcceptFriendRequest:  acceptFriendRequest,
		DeclineFriendRequest: declineFriendRequest,
		RemoveFriend:         removeFriend,
		CreateGroup:          createGroup,
		JoinGroup:            joinGroup,
		LeaveGroup:           leaveGroup,
		AddQuote:             addQuote,

		GetProfile:         getProfile,
		GetLeaderboard:     getLeaderboard,
		GetAccountStats:    getAccountStats,
		GetSessionHistory:  getSessionHistory,
		GetFriends:         getFriends,
		GetPendingRequests: getPendingRequests,
		GetGroupMembers:    getGroupMembers,
		ListGroups:         listGroups,
		GetDailyQuote:      getDailyQuote,

		Tokens:        tokens,
		HealthChecker: health,
		Logger:        log,
	}
	if loginLimiter != nil {
		deps.LoginLimiter = loginLimiter
	}

	server := httpiface.NewServer(serverCfg, deps)

	errCh := server.StartAsync()
	log.Info("http server listening", logger.String("address", serverCfg.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	log.Info("shutdown completed")
	return nil
}

// The query handlers skip caching when handed a nil interface, so a nil
// concrete pointer must not leak into the interface value.

func leaderboardCacheOrNil(c *redis.LeaderboardCache) leaderboard.Cache {
	if c == nil {
		return nil
	}
	return c
}

func quoteCacheOrNil(c *redis.QuoteCache) query.DailyQuoteCache {
	if c == nil {
		return nil
	}
	return c
}
