// internal/store/auth.go
package store

import (
	"context"
	"database/sql"
	goerrors "errors"
	"strings"
	"time"
)

const authCachePrefix = "auth:"

// TokenSignature returns the third dot-separated segment of a signed token,
// used as the opaque session lookup key, or "" when the token does not have
// that shape.
func TokenSignature(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) > 2 {
		return parts[2]
	}
	return ""
}

// LoginUser records an active session for the token's signature. The insert
// is an upsert: logging in twice with the same token is a no-op, not an
// error. Sessions never expire from this layer.
func (s *DB) LoginUser(ctx context.Context, conn *sql.Conn, userID int64, token string) error {
	signature := TokenSignature(token)

	return s.withConn(ctx, conn, "loginUser", func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx,
			`INSERT INTO auth (token, user_id) VALUES ($1, $2) ON CONFLICT (token) DO NOTHING`,
			signature, userID,
		)
		if err != nil {
			return err
		}

		s.cacheSet(ctx, signature, userID)
		return nil
	})
}

// IsLoggedIn reports whether the token's signature has an active session.
// The cache answers positives; misses and cache errors fall back to SQL.
func (s *DB) IsLoggedIn(ctx context.Context, conn *sql.Conn, token string) (bool, error) {
	signature := TokenSignature(token)
	active := false

	err := s.withConn(ctx, conn, "isLoggedIn", func(c *sql.Conn) error {
		if s.cacheHas(ctx, signature) {
			active = true
			return nil
		}

		var userID int64
		err := c.QueryRowContext(ctx,
			`SELECT user_id FROM auth WHERE token = $1`,
			signature,
		).Scan(&userID)
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		active = true
		s.cacheSet(ctx, signature, userID)
		return nil
	})
	if err != nil {
		return false, err
	}
	return active, nil
}

// LogoutUser destroys the session for the token's signature.
func (s *DB) LogoutUser(ctx context.Context, conn *sql.Conn, token string) error {
	signature := TokenSignature(token)

	return s.withConn(ctx, conn, "logoutUser", func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `DELETE FROM auth WHERE token = $1`, signature)
		if err != nil {
			return err
		}

		s.cacheDel(ctx, signature)
		return nil
	})
}

// Cache helpers: the SQL table is authoritative; the cache is best-effort,
// so its errors are logged and swallowed.

func (s *DB) cacheSet(ctx context.Context, signature string, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, authCachePrefix+signature, userID, time.Duration(0)); err != nil {
		s.log.Warn("auth cache set failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *DB) cacheHas(ctx context.Context, signature string) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Exists(ctx, authCachePrefix+signature)
	if err != nil {
		s.log.Warn("auth cache lookup failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	return ok
}

func (s *DB) cacheDel(ctx context.Context, signature string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, authCachePrefix+signature); err != nil {
		s.log.Warn("auth cache delete failed", map[string]interface{}{"error": err.Error()})
	}
}
