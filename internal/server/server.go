package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"deckboard/internal/auth"
	"deckboard/internal/handler"
	"deckboard/internal/metrics"
	"deckboard/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	errMissingDecks  = errors.New("deck service dependency required")
	errMissingTokens = errors.New("token manager dependency required")
)

type Dependencies struct {
	Address        string
	Mode           string
	AllowedOrigins []string

	Tokens     *auth.TokenManager
	Decks      handler.DeckService
	Events     handler.Subscriber
	Workspaces handler.WorkspaceCache
	Members    handler.MemberService
	Providers  handler.ProviderURLs
	Health     map[string]handler.Pinger

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

type Server struct {
	Engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

func New(deps Dependencies) (*Server, error) {
	if deps.Decks == nil {
		return nil, errMissingDecks
	}
	if deps.Tokens == nil {
		return nil, errMissingTokens
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	deckHandler := handler.NewDeckHandler(deps.Decks)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// Ops routes
	r.GET("/health", healthHandler.Health)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	if deps.Providers != nil {
		r.GET("/auth/providers/:provider/url", handler.NewAuthHandler(deps.Providers).ProviderURL)
	}

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.Authenticate(deps.Tokens))
	{
		decks := authorized.Group("/workspaces/:workspace_id/boards/:board_id/decks")
		decks.GET("", deckHandler.List)
		decks.POST("", deckHandler.Create)
		decks.POST("/move", deckHandler.Move)
		decks.PUT("/order", deckHandler.Reorder)
		decks.POST("/resync", deckHandler.Resync)

		authorized.PATCH("/decks/:id", deckHandler.Rename)
		authorized.DELETE("/decks/:id", deckHandler.Delete)

		if deps.Workspaces != nil {
			authorized.POST("/workspaces/cache/invalidate", handler.NewWorkspaceHandler(deps.Workspaces).InvalidateCache)
		}
		if deps.Members != nil {
			members := handler.NewMemberHandler(deps.Members)
			authorized.GET("/workspaces/:workspace_id/members", members.List)
			authorized.POST("/workspaces/:workspace_id/members", members.Add)
			authorized.DELETE("/workspaces/:workspace_id/members/:user_id", members.Remove)
		}
		if deps.Events != nil {
			events := handler.NewEventsHandler(deps.Decks, deps.Events, deps.AllowedOrigins, logger)
			authorized.GET("/boards/:board_id/events", events.Stream)
		}
	}

	return &Server{
		Engine: r,
		http: &http.Server{
			Addr:              deps.Address,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("address", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server exited properly")
	return nil
}
