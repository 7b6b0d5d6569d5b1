// internal/store/bootstrap.go
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pizza-store/internal/common/logger"
	"pizza-store/internal/models"
)

// Bootstrap ensures the schema exists, seeds the administrator on first
// creation, and kicks off seed-data provisioning once. It always signals
// readiness, even on failure: a broken bootstrap is logged, and subsequent
// operations fail individually with connectivity errors instead of taking
// the process down.
func (s *DB) Bootstrap(ctx context.Context) {
	defer s.signalReady()

	log := s.log.WithFields(map[string]interface{}{
		"runId":  uuid.NewString(),
		"schema": s.cfg.Database.Postgres.Schema,
	})

	if err := s.initializeSchema(ctx, log); err != nil {
		log.Error("error initializing database", map[string]interface{}{
			"error": err.Error(),
			"host":  s.cfg.Database.Postgres.Host,
		})
	}
}

func (s *DB) initializeSchema(ctx context.Context, log logger.Logger) error {
	schema := s.cfg.Database.Postgres.Schema

	// Plain session: the schema may not exist yet, so no search_path here.
	conn, err := s.pg.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect for bootstrap: %w", err)
	}
	defer conn.Close()

	var exists bool
	err = conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		schema,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check schema existence: %w", err)
	}

	if exists {
		log.Info("schema exists", nil)
	} else {
		log.Info("schema does not exist, creating it", nil)
	}

	if _, err := conn.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "SET search_path TO "+pq.QuoteIdentifier(schema)); err != nil {
		return fmt.Errorf("failed to select schema: %w", err)
	}

	for _, stmt := range tableCreateStatements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if !exists {
		log.Info("successfully created schema", nil)

		admin := models.User{
			Name:     s.cfg.Store.Admin.Name,
			Email:    s.cfg.Store.Admin.Email,
			Password: s.cfg.Store.Admin.Password,
			Roles:    []models.RoleAssignment{{Role: models.RoleAdmin}},
		}
		if _, err := s.AddUser(ctx, conn, admin); err != nil {
			return fmt.Errorf("failed to seed administrator: %w", err)
		}

		if s.cfg.Seed.Enabled {
			go s.provisionSeedData(log)
		}
	}

	return nil
}

// provisionSeedData is fire-and-forget: success and failure are only logged.
func (s *DB) provisionSeedData(log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	target := s.cfg.Seed.Target
	if err := s.seeder.Provision(ctx, target); err != nil {
		log.Error("seed-data provisioning failed", map[string]interface{}{
			"target": target,
			"error":  err.Error(),
		})
		return
	}
	log.Info("seed-data provisioning completed", map[string]interface{}{"target": target})
}
