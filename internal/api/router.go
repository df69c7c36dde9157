package api

import (
	"context"
	"net/http"
	"time"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/api/handlers"
	mw "github.com/abolfazl2800140/Gym-handler-Desktop/internal/api/middleware"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/buildconfig"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/config"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/llm"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/metrics"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/store"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/store/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Assistant *service.Assistant
	Knowledge *service.KnowledgeService
	Expirer   *service.SessionExpirer
	Limiter   *mw.RateLimiter
	Metrics   *metrics.Metrics
	startTime time.Time
}

// NewApp wires the assistant over stores with the configured completion
// gateway.
func NewApp(stores *Stores, logger *zap.Logger) *App {
	gw := NewGateway(logger)
	app := newApp(stores, gw, logger)
	gw.SetObserver(app.Metrics)
	return app
}

func newApp(stores *Stores, completion domain.CompletionClient, logger *zap.Logger) *App {
	// Services
	knowledgeSvc := service.NewKnowledgeService(stores.Knowledge, logger)
	logSvc := service.NewLogService(stores.Logs, logger)
	aggregator := service.NewContextAggregator(stores.Members, stores.Attendance, stores.Invoices)
	sessions := service.NewSessionRegistry(config.SessionMaxTurns())

	assistant := service.NewAssistant(stores.Knowledge, aggregator, completion, logSvc, sessions, logger)
	assistant.SetDefaultUser(config.AssistantUser())

	expirer := service.NewSessionExpirer(sessions, logger)
	expirer.SetIdleTTL(config.SessionIdleTTL())

	limiter := mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst())

	m := metrics.New(sessions.Len)
	assistant.SetObserver(m)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(assistant)
	memoryHandler := handlers.NewMemoryHandler(knowledgeSvc)
	logHandler := handlers.NewLogHandler(logSvc)
	completionHandler := handlers.NewCompletionHandler(completion)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Assistant: assistant,
		Knowledge: knowledgeSvc,
		Expirer:   expirer,
		Limiter:   limiter,
		Metrics:   m,
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Metrics(m))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(limiter.Middleware)

	r.Get("/health", app.healthHandler(stores.Ping))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Transcript)
			r.Delete("/", sessionHandler.Dismiss)
			r.Post("/messages", sessionHandler.Ask)
		})

		r.Route("/memory", func(r chi.Router) {
			r.Post("/", memoryHandler.Teach)
			r.Get("/", memoryHandler.List)
		})

		r.Route("/logs", func(r chi.Router) {
			r.Post("/", logHandler.Create)
			r.Get("/", logHandler.ListRecent)
		})

		r.Post("/completions", completionHandler.Complete)
	})

	return app
}

func (app *App) healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":         "ok",
			"build":          buildconfig.VersionInfo(),
			"uptime_seconds": time.Since(app.startTime).Seconds(),
			"sessions":       app.Assistant.Sessions().Len(),
		}
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				resp["status"] = "error"
				resp["error"] = err.Error()
				handlers.WriteJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
		}
		handlers.WriteJSON(w, http.StatusOK, resp)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.KnowledgeStore       = (*store.KnowledgeStore)(nil)
	_ domain.ConversationLogStore = (*store.ConversationLogStore)(nil)
	_ domain.MemberStore          = (*store.MemberStore)(nil)
	_ domain.AttendanceStore      = (*store.AttendanceStore)(nil)
	_ domain.InvoiceStore         = (*store.InvoiceStore)(nil)
	_ domain.KnowledgeStore       = (*sqlite.KnowledgeStore)(nil)
	_ domain.ConversationLogStore = (*sqlite.ConversationLogStore)(nil)
	_ domain.MemberStore          = (*sqlite.MemberStore)(nil)
	_ domain.AttendanceStore      = (*sqlite.AttendanceStore)(nil)
	_ domain.InvoiceStore         = (*sqlite.InvoiceStore)(nil)
	_ domain.CompletionClient     = (*llm.Gateway)(nil)
	_ domain.CompletionClient     = (*llm.MockClient)(nil)
	_ llm.ChatBackend             = (*llm.OllamaClient)(nil)
	_ llm.Loader                  = (*llm.OpenAILoader)(nil)
	_ llm.TierObserver            = (*metrics.Metrics)(nil)
	_ service.ResolutionObserver  = (*metrics.Metrics)(nil)
	_ mw.HTTPObserver             = (*metrics.Metrics)(nil)
)
