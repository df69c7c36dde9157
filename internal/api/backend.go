package api

import (
	"context"
	"fmt"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/config"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/llm"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/store"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/store/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Stores bundles the collaborators the assistant reads and appends to.
type Stores struct {
	Knowledge  domain.KnowledgeStore
	Logs       domain.ConversationLogStore
	Members    domain.MemberStore
	Attendance domain.AttendanceStore
	Invoices   domain.InvoiceStore

	Driver string
	Ping   func(ctx context.Context) error
	Close  func()
}

// OpenStores connects to the configured database and runs migrations.
func OpenStores(ctx context.Context, logger *zap.Logger) (*Stores, error) {
	switch config.StoreDriver() {
	case config.StorePostgres:
		return openPostgres(ctx, config.DatabaseURL(), logger)
	default:
		return OpenSQLite(ctx, config.SQLitePath(), logger)
	}
}

func openPostgres(ctx context.Context, url string, logger *zap.Logger) (*Stores, error) {
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", config.StorePostgres)
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := store.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("connected to database", zap.String("driver", config.StorePostgres))

	return &Stores{
		Knowledge:  store.NewKnowledgeStore(pool),
		Logs:       store.NewConversationLogStore(pool),
		Members:    store.NewMemberStore(pool),
		Attendance: store.NewAttendanceStore(pool),
		Invoices:   store.NewInvoiceStore(pool),
		Driver:     config.StorePostgres,
		Ping:       pool.Ping,
		Close:      pool.Close,
	}, nil
}

// OpenSQLite opens the desktop database at path.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*Stores, error) {
	db, err := sqlite.Open(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("opened database", zap.String("driver", config.StoreSQLite), zap.String("path", path))

	return &Stores{
		Knowledge:  sqlite.NewKnowledgeStore(db),
		Logs:       sqlite.NewConversationLogStore(db),
		Members:    sqlite.NewMemberStore(db),
		Attendance: sqlite.NewAttendanceStore(db),
		Invoices:   sqlite.NewInvoiceStore(db),
		Driver:     config.StoreSQLite,
		Ping:       db.Ping,
		Close:      func() { _ = db.Close() },
	}, nil
}

// NewGateway builds the completion tiers from configuration.
func NewGateway(logger *zap.Logger) *llm.Gateway {
	var primary llm.ChatBackend
	if url := config.OllamaURL(); url != "" {
		primary = llm.NewOllamaClient(url, config.OllamaModel(), config.PrimaryTimeout())
	}

	var shared *llm.SharedEngine
	if config.SecondaryEnabled() {
		loader := llm.NewOpenAILoader(config.SecondaryBaseURL(), config.SecondaryAPIKey(), config.SecondaryTimeout())
		shared = llm.NewSharedEngine(loader, logger)
	}

	gw := llm.NewGateway(primary, shared, config.SecondaryPreferredModel(), config.SecondaryFallbackModel(), logger)
	logger.Info("completion gateway initialized", zap.Strings("tiers", gw.Tiers()))
	return gw
}
