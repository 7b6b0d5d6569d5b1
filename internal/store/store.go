// Package store is the transactional data-access layer backing the ordering
// application: users and role assignments, menu items, diner orders,
// franchises and stores, and authentication-session bookkeeping.
package store

import (
	"sync"

	"pizza-store/internal/common/config"
	"pizza-store/internal/common/database"
	"pizza-store/internal/common/logger"
	"pizza-store/internal/common/password"
	"pizza-store/internal/seed"
)

// DB is the data-access layer. Construct it with New, then run Bootstrap
// once; every operation that has to open its own connection waits for the
// readiness signal first.
type DB struct {
	cfg    *config.Config
	pg     *database.PostgresClient
	cache  *database.RedisClient
	log    logger.Logger
	hasher password.Hasher
	seeder seed.Provisioner

	ready     chan struct{}
	readyOnce sync.Once
}

// Option customizes a DB at construction time.
type Option func(*DB)

// WithCache attaches a Redis client used as a write-through cache for auth
// token signatures. Without it every isLoggedIn check hits SQL.
func WithCache(cache *database.RedisClient) Option {
	return func(s *DB) { s.cache = cache }
}

// WithHasher overrides the password hasher (tests use a cheap one).
func WithHasher(h password.Hasher) Option {
	return func(s *DB) { s.hasher = h }
}

// WithSeeder overrides the seed-data provisioner.
func WithSeeder(p seed.Provisioner) Option {
	return func(s *DB) { s.seeder = p }
}

// New builds a DB around an open Postgres client. The DB is not ready until
// Bootstrap has run.
func New(cfg *config.Config, pg *database.PostgresClient, log logger.Logger, opts ...Option) *DB {
	s := &DB{
		cfg:    cfg,
		pg:     pg,
		log:    log,
		hasher: password.NewBcrypt(),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeder == nil {
		s.seeder = seed.NewScriptProvisioner(cfg.Seed.Script, log)
	}
	return s
}

// Ready is closed once Bootstrap has finished, successfully or not. Callers
// that open their own connections block on it.
func (s *DB) Ready() <-chan struct{} {
	return s.ready
}

func (s *DB) signalReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}
