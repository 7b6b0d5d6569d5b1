// internal/store/conn.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"pizza-store/internal/common/errors"
	"pizza-store/internal/common/metrics"
)

// withConn is the connection-ownership backbone. A non-nil conn is borrowed:
// it is passed through untouched and never closed here, so a caller can
// thread one session through a multi-step sequence and get a consistent
// atomicity scope. A nil conn means this operation owns its session: wait
// for readiness, check one out, select the active schema, and release it on
// every exit path.
func (s *DB) withConn(ctx context.Context, conn *sql.Conn, op string, fn func(*sql.Conn) error) error {
	start := time.Now()
	metrics.StoreOperationsTotal.WithLabelValues(op).Inc()

	err := func() error {
		if conn != nil {
			return fn(conn)
		}

		if err := s.awaitReady(ctx); err != nil {
			return err
		}

		own, err := s.acquire(ctx)
		if err != nil {
			return errors.NewConnectivityFailureError(err)
		}
		defer own.Close()

		return fn(own)
	}()

	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreOperationsFailed.WithLabelValues(op, string(errors.CodeOf(err))).Inc()
	}
	return err
}

// acquire checks out a dedicated session and selects the active schema on it.
// Bootstrap uses it directly; everything else goes through withConn.
func (s *DB) acquire(ctx context.Context) (*sql.Conn, error) {
	timeout := s.connectTimeout()
	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := s.pg.Conn(acquireCtx)
	if err != nil {
		return nil, err
	}

	if schema := s.cfg.Database.Postgres.Schema; schema != "" {
		if _, err := conn.ExecContext(ctx, "SET search_path TO "+pq.QuoteIdentifier(schema)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to select schema %s: %w", schema, err)
		}
	}

	metrics.StoreConnectionsOpened.Inc()
	return conn, nil
}

// awaitReady blocks until Bootstrap has signalled, bounded by the configured
// connect timeout. A bootstrap that failed still signals; operations then
// fail individually with connectivity errors rather than bootstrap errors.
func (s *DB) awaitReady(ctx context.Context) error {
	timeout := s.connectTimeout()
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return errors.NewConnectivityFailureError(ctx.Err())
	case <-time.After(timeout):
		return errors.NewConnectivityFailureError(fmt.Errorf("store not ready after %s", timeout))
	}
}

func (s *DB) connectTimeout() time.Duration {
	secs := s.cfg.Database.Postgres.ConnectTimeout
	if secs <= 0 {
		secs = 5
	}
	return time.Duration(secs) * time.Second
}

// pageBounds validates pagination input and returns the fetch window. The
// store fetches limit+1 rows and trims, so callers learn whether more rows
// matched without a second query. Validated ints are the only values ever
// interpolated into SQL text.
func pageBounds(page, limit int) (fetch, offset int, err error) {
	if page < 0 {
		return 0, 0, errors.NewInvalidArgumentError(fmt.Sprintf("page %d out of range", page))
	}
	if limit <= 0 {
		return 0, 0, errors.NewInvalidArgumentError(fmt.Sprintf("limit %d out of range", limit))
	}
	return limit + 1, page * limit, nil
}

// translateNameFilter turns the public `*` wildcard into SQL LIKE syntax.
// Other LIKE metacharacters pass through literally; the value stays
// parameterized, so this is a matching gap, not an injection risk.
func translateNameFilter(filter string) string {
	if filter == "" {
		filter = "*"
	}
	return strings.ReplaceAll(filter, "*", "%")
}
