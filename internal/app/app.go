package app

import (
	"context"
	"grade_predictor/internal/config"
	"grade_predictor/internal/controller"
	"grade_predictor/internal/service"
	"grade_predictor/pkg/configwatcher"
	"grade_predictor/pkg/logger"
	"grade_predictor/pkg/monitoring"
	"grade_predictor/pkg/security"
	"grade_predictor/pkg/tracing"
	"grade_predictor/web"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Sessions *service.SessionStore

	services        *services
	tracer          *sdktrace.TracerProvider
	cfgMu           sync.Mutex
	configCallbacks []func(*config.Config)
}

type services struct {
	client     *service.PredictionClient
	prediction *service.PredictionService
}

type controllers struct {
	page       *controller.PageController
	form       *controller.FormController
	prediction *controller.PredictionController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// applyConfig hands a reloaded config to every registered callback.
func (a *App) applyConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.Config = cfg
	a.cfgMu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initServices(cfg *config.Config) *services {
	s := &services{}
	s.client = service.NewPredictionClient(cfg.Prediction)
	s.prediction = service.NewPredictionService(s.client)
	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		page:       controller.NewPageController(s.prediction),
		form:       controller.NewFormController(s.prediction),
		prediction: controller.NewPredictionController(s.prediction),
		health:     controller.NewHealthController(s.client, a.Sessions),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	app := &App{
		Config:   cfg,
		Sessions: service.NewSessionStore(cfg.Session.TTL()),
	}

	app.services = app.initServices(cfg)
	controllers := app.initControllers(app.services)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.Prediction.BaseURL != app.services.client.BaseURL() {
			logger.Log.Info("Prediction service address changed",
				zap.String("from", app.services.client.BaseURL()),
				zap.String("to", newCfg.Prediction.BaseURL))
			app.services.client.SetBaseURL(newCfg.Prediction.BaseURL)
		}
	})

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.Default()
	app.Router = router

	tmpl, err := web.ParseTemplates()
	if err != nil {
		logger.Log.Fatal("Failed to parse page templates", zap.Error(err))
	}
	router.SetHTMLTemplate(tmpl)

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.Sessions.StartJanitor(time.Minute)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	if a.Config.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port), zap.String("prediction_endpoint", a.services.client.Endpoint()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.Sessions.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
