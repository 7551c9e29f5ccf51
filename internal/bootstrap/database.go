package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/api-relay/internal/config"
	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	cbImpl "github.com/jt828/api-relay/pkg/circuitbreaker/implementation"
	"github.com/jt828/api-relay/pkg/observability"
	obsImpl "github.com/jt828/api-relay/pkg/observability/implementation"
	"github.com/jt828/api-relay/pkg/retry"
	retryImpl "github.com/jt828/api-relay/pkg/retry/implementation"
	"github.com/sony/gobreaker/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrCircuitOpen = errors.New("store circuit breaker is open")

type Store struct {
	// DB is nil for the memory backend.
	DB                *gorm.DB
	CircuitBreaker    circuitbreaker.CircuitBreaker
	UnitOfWorkFactory repository.UnitOfWorkFactory
}

// Ping reports whether the backing database answers. While the breaker is
// open every repository call fails fast, so the store counts as down even
// if the database itself would answer. The memory store is always reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.CircuitBreaker != nil && s.CircuitBreaker.State() == circuitbreaker.Open {
		return ErrCircuitOpen
	}
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func InitializeStore(ctx context.Context, cfg config.StoreConfig, obs observability.Observability) (*Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return InitializeDatabase(ctx, cfg.DSN, obs.Meter(), obs.Logger())
	case config.BackendMemory, "":
		obs.Logger().Warn("using in-memory store, history is lost on restart")
		return &Store{
			CircuitBreaker:    circuitbreaker.Passthrough{},
			UnitOfWorkFactory: repository.NewMemoryUnitOfWorkFactory(repository.NewMemoryStore(repository.SystemClock)),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func InitializeDatabase(ctx context.Context, dsn string, meter observability.Meter, log observability.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		return nil, err
	}

	if err := db.Use(obsImpl.NewGormMetricsPlugin(meter)); err != nil {
		return nil, err
	}

	store := &Store{DB: db}

	r := retryImpl.NewRetry(5,
		retry.WithInterval(200*time.Millisecond),
		retry.WithMaxInterval(2*time.Second),
		retry.WithRetryable(IsRetryable),
	)
	if err := r.Execute(ctx, func() error {
		err := store.Ping(ctx)
		if err != nil {
			log.Warn("database not reachable yet", observability.Err(err))
		}
		return err
	}); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store.CircuitBreaker = cbImpl.NewCircuitBreaker(gobreaker.Settings{
		Name:    "postgresql",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: isHealthyOutcome,
		OnStateChange: cbImpl.OnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		}),
	})
	store.UnitOfWorkFactory = repository.NewTransactionDbUnitOfWorkFactory(db, store.CircuitBreaker, repository.SystemClock)

	return store, nil
}

// isHealthyOutcome keeps caller mistakes from tripping the breaker.
func isHealthyOutcome(err error) bool {
	return err == nil ||
		errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, apperror.ErrInvalidArgument) ||
		errors.Is(err, context.Canceled)
}

// IsRetryable reports whether err is a transient connection or
// serialization failure worth another attempt.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001": // serialization_failure
			return true
		case "40P01": // deadlock_detected
			return true
		case "08006": // connection_failure
			return true
		case "08001": // sqlclient_unable_to_establish_sqlconnection
			return true
		case "08004": // sqlserver_rejected_establishment_of_sqlconnection
			return true
		case "57P03": // cannot_connect_now
			return true
		}
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr *net.OpError
	return errors.As(err, &netErr)
}
