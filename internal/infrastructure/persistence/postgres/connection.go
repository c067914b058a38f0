// Package postgres реализует документное хранилище поверх PostgreSQL (JSONB).
//
// Каждая коллекция - отдельная таблица (id TEXT, doc JSONB, created_at, updated_at),
// таблицы создаются миграциями из каталога migrations/.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

// DriverName is reported by Session.Driver.
const DriverName = "postgres"

// Config содержит настройки пула соединений.
type Config struct {
	MaxConns        int32         // Максимум соединений в пуле
	MinConns        int32         // Минимум соединений в пуле
	MaxConnLifetime time.Duration // Максимальное время жизни соединения
	MaxConnIdleTime time.Duration // Максимальное время простоя соединения
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		MaxConns:        25,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}
}

// Session - пул соединений, разделяемый всеми коллекциями.
type Session struct {
	pool *pgxpool.Pool
}

var _ ports.Session = (*Session)(nil)

// Dial создаёт пул соединений к dsn и проверяет его ping-ом.
func Dial(ctx context.Context, dsn string, cfg Config) (*Session, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Session{pool: pool}, nil
}

// NewSession wraps an existing pool.
func NewSession(pool *pgxpool.Pool) *Session {
	return &Session{pool: pool}
}

// Collection returns the document collection backed by table name.
func (s *Session) Collection(name string) ports.Collection {
	return &Collection{
		q:     s.pool,
		name:  name,
		table: pgx.Identifier{name}.Sanitize(),
	}
}

// Ping проверяет здоровье подключения к БД.
func (s *Session) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Driver returns "postgres".
func (s *Session) Driver() string { return DriverName }

// Close closes the pool.
func (s *Session) Close() error {
	s.pool.Close()
	return nil
}

// PoolStats - статистика пула соединений для мониторинга.
type PoolStats struct {
	TotalConns    int32
	IdleConns     int32
	AcquiredConns int32
	MaxConns      int32
}

// Stats возвращает текущую статистику пула.
func (s *Session) Stats() PoolStats {
	stat := s.pool.Stat()
	return PoolStats{
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
		MaxConns:      stat.MaxConns(),
	}
}
