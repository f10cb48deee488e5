package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	domainauth "gameshelf-server-go/internal/domain/auth"
	domainimage "gameshelf-server-go/internal/domain/image"
	"gameshelf-server-go/internal/domain/eventbus"
	"gameshelf-server-go/internal/domain/notify"
	notifystore "gameshelf-server-go/internal/domain/notify/store"
	platformconfig "gameshelf-server-go/internal/platform/config"
	platformerrors "gameshelf-server-go/internal/platform/errors"
	platformlogging "gameshelf-server-go/internal/platform/logging"
	platformstorage "gameshelf-server-go/internal/platform/storage"
	httptransport "gameshelf-server-go/internal/transport/http"
	httpwebapi "gameshelf-server-go/internal/transport/http/webapi"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config        *platformconfig.Config
	logger        *platformlogging.Logger
	db            *gorm.DB
	users         *platformstorage.UserRepository
	authService   *domainauth.Service
	codec         *domainauth.TokenCodec
	notifications *notify.Service
	covers        *domainimage.Pipeline
}

// Run drives the whole service lifecycle: configuration, dependency
// initialisation, serving and graceful shutdown.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	logger := state.logger
	if state.config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}
	if state.authService == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"auth service not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	defer func() {
		if state.notifications != nil {
			if closeErr := state.notifications.Close(context.Background()); closeErr != nil {
				logger.ErrorTag("Notify", "notification service did not close cleanly: %v", closeErr)
			}
		}
		eventbus.Shutdown()
		logger.Close()
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("Bootstrap", "service stopped")
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	logger.InfoTag("Bootstrap", "initialisation order")
	for _, step := range steps {
		logger.InfoTag("Bootstrap", "  %s", step.Title)
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:init-database",
			Title:     "Initialise database",
			DependsOn: []string{"config:load", "logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   initDatabaseStep,
		},
		{
			ID:        "auth:init-service",
			Title:     "Initialise authentication",
			DependsOn: []string{"storage:init-database"},
			Kind:      platformerrors.KindAuth,
			Execute:   initAuthStep,
		},
		{
			ID:        "notify:init-service",
			Title:     "Initialise notification store",
			DependsOn: []string{"storage:init-database"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initNotifyStep,
		},
		{
			ID:        "events:register-handlers",
			Title:     "Register event handlers",
			DependsOn: []string{"notify:init-service"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   registerEventHandlersStep,
		},
		{
			ID:        "image:init-pipeline",
			Title:     "Initialise cover image pipeline",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initImagePipelineStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	cfg, err := platformconfig.NewLoader().Load()
	if err != nil {
		return err
	}
	state.config = cfg
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialise logging provider", err)
	}

	state.logger = logger
	logger.InfoTag("Bootstrap", "logging ready [%s]", state.config.Log.Level)
	return nil
}

func initDatabaseStep(ctx context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database.DSN)
	if err != nil {
		return err
	}
	if err := platformstorage.Seed(ctx, db); err != nil {
		return err
	}
	state.db = db
	state.users = platformstorage.NewUserRepository(db)
	state.logger.InfoTag("Storage", "database ready at %s", state.config.Database.DSN)
	return nil
}

func initAuthStep(_ context.Context, state *appState) error {
	codec, err := domainauth.NewTokenCodec(state.config.Auth.Secret, state.config.Auth.TokenTTL.Std())
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAuth, "auth:init-service", "failed to create token codec", err)
	}
	service, err := domainauth.NewService(state.users, codec, state.logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindAuth, "auth:init-service", "failed to create auth service", err)
	}
	state.codec = codec
	state.authService = service
	return nil
}

func initNotifyStep(_ context.Context, state *appState) error {
	store, cleanupInterval, err := buildNotifyStore(state.config, state.db, state.logger)
	if err != nil {
		return err
	}

	service, err := notify.NewService(store, state.logger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "notify:init-service", "failed to create notification service", err)
	}
	service.StartCleanup(cleanupInterval)
	state.notifications = service
	return nil
}

func buildNotifyStore(config *platformconfig.Config, db *gorm.DB, logger *platformlogging.Logger) (notifystore.Store, time.Duration, error) {
	storeType := strings.ToLower(strings.TrimSpace(config.Notify.Store.Type))
	storeCfg := notifystore.Config{
		Driver: storeType,
		TTL:    config.Notify.Store.Expiry.Std(),
	}
	if storeCfg.Driver == "" || storeCfg.Driver == "database" {
		storeCfg.Driver = notifystore.DriverSQLite
	}

	cleanupInterval := config.Notify.Store.Cleanup.Std()
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	switch storeCfg.Driver {
	case notifystore.DriverMemory:
		if config.Notify.Store.Memory.Cleanup > 0 {
			cleanupInterval = config.Notify.Store.Memory.Cleanup.Std()
		}
		storeCfg.Memory = &notifystore.MemoryConfig{GCInterval: cleanupInterval}
	case notifystore.DriverSQLite:
	case notifystore.DriverRedis:
		storeCfg.Redis = &notifystore.RedisConfig{
			Addr:     config.Notify.Store.Redis.Addr,
			Username: config.Notify.Store.Redis.Username,
			Password: config.Notify.Store.Redis.Password,
			DB:       config.Notify.Store.Redis.DB,
			Prefix:   config.Notify.Store.Redis.Prefix,
		}
		if storeCfg.Redis.Addr == "" {
			return nil, 0, platformerrors.New(
				platformerrors.KindBootstrap,
				"notify:init-service",
				"redis store addr is required",
			)
		}
	default:
		logger.WarnTag("Notify", "unsupported store type %s, falling back to memory", storeType)
		storeCfg.Driver = notifystore.DriverMemory
		storeCfg.Memory = &notifystore.MemoryConfig{GCInterval: cleanupInterval}
	}

	store, err := notifystore.New(storeCfg, notifystore.Dependencies{SQLiteDB: db})
	if err != nil {
		return nil, 0, platformerrors.Wrap(platformerrors.KindBootstrap, "notify:init-service", "failed to create notification store", err)
	}
	return store, cleanupInterval, nil
}

func registerEventHandlersStep(_ context.Context, state *appState) error {
	handler := eventbus.NewNotificationHandler(state.notifications, state.logger)
	if err := handler.Register(); err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "events:register-handlers", "failed to register event handlers", err)
	}
	return nil
}

func initImagePipelineStep(_ context.Context, state *appState) error {
	pipeline, err := domainimage.NewPipeline(domainimage.Options{
		Limits: domainimage.DefaultLimits(),
		Logger: state.logger,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "image:init-pipeline", "failed to create image pipeline", err)
	}
	state.covers = pipeline
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	config := state.config
	logger := state.logger

	router, err := httptransport.Build(httptransport.Options{
		Config:      config,
		Logger:      logger,
		AuthFilter:  httptransport.AuthFilter(state.codec, state.users, logger),
		PolicyGuard: httptransport.EnforcePolicy(httpwebapi.Policy(), logger),
	})
	if err != nil {
		return nil, err
	}

	router.Engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			httptransport.RespondError(c, http.StatusNotFound, "not found")
			return
		}
		c.Status(http.StatusNotFound)
	})

	webapiService, err := httpwebapi.NewService(httpwebapi.Options{
		Config:        config,
		Logger:        logger,
		Auth:          state.authService,
		Users:         state.users,
		Boardgames:    platformstorage.NewBoardgameRepository(state.db),
		Publishers:    platformstorage.NewPublisherRepository(state.db),
		Reservations:  platformstorage.NewReservationRepository(state.db),
		Reviews:       platformstorage.NewReviewRepository(state.db),
		Analytics:     platformstorage.NewAnalyticsRepository(state.db),
		Notifications: state.notifications,
		Covers:        state.covers,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "webapi:new-service", "failed to create webapi service", err)
	}
	if err := webapiService.Register(groupCtx, router.API); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindTransport, "webapi:register", "failed to register webapi routes", err)
	}

	httpServer := &http.Server{
		Addr:    config.Server.IP + ":" + strconv.Itoa(config.Server.Port),
		Handler: router.Engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "server listening on http://%s", httpServer.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("Bootstrap", "received shutdown signal, cleaning up")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("Bootstrap", "error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("Bootstrap", "all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.ErrorTag("Bootstrap", "shutdown timed out, forcing exit")
		return timeoutErr
	}
	return nil
}
