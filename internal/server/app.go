package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sleepstars/bayportbot/internal/completion"
	"github.com/sleepstars/bayportbot/internal/config"
	"github.com/sleepstars/bayportbot/internal/logger"
	"github.com/sleepstars/bayportbot/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// App is the HTTP application, built once at startup
type App struct {
	cfg     *config.Config
	router  *gin.Engine
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// New wires middleware and routes. m may be nil, in which case a fresh
// metrics set is created.
func New(cfg *config.Config, proxy completion.Completer, m *metrics.Metrics) *App {
	log := logger.GetLogger().WithComponent("server")

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	if m == nil {
		m = metrics.NewMetrics()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(log))
	router.Use(metrics.Middleware(m))
	router.Use(corsMiddleware(cfg.CORS.AllowOrigins))
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	handlers := NewHandlers(proxy, cfg.Docs.Path, router.Routes)

	// Web UI
	router.GET("/", handlers.Index)
	router.POST("/chat-ui", handlers.ChatUI)
	router.POST("/request-callback-ui", handlers.CallbackUI)
	router.POST("/book-settlement-ui", handlers.SettlementUI)

	// JSON API
	router.POST("/chat", handlers.Chat)
	router.GET("/download-statement", handlers.DownloadStatement)
	router.POST("/book-settlement", handlers.BookSettlement)
	router.POST("/request-callback", handlers.RequestCallback)

	// Documentation
	router.GET("/docs", handlers.Docs)
	router.GET(cfg.Docs.Path, handlers.Reference)

	// Operations
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	log.Info("Registered %d routes", len(router.Routes()))

	return &App{
		cfg:     cfg,
		router:  router,
		metrics: m,
		logger:  log,
	}
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Listening on %s", a.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
