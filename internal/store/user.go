// internal/store/user.go
package store

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"
	"strings"

	"pizza-store/internal/common/errors"
	"pizza-store/internal/models"
)

// AddUser hashes the password, inserts the user row, then inserts one role
// row per requested role. A Franchisee role names its franchise; resolution
// failure surfaces NotFound, but the user row already inserted stays — the
// sequence is deliberately not wrapped in a transaction.
func (s *DB) AddUser(ctx context.Context, conn *sql.Conn, user models.User) (models.User, error) {
	err := s.withConn(ctx, conn, "addUser", func(c *sql.Conn) error {
		hashed, err := s.hasher.Hash(user.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		err = c.QueryRowContext(ctx,
			`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
			user.Name, user.Email, hashed,
		).Scan(&user.ID)
		if err != nil {
			return err
		}

		for i, role := range user.Roles {
			switch role.Role {
			case models.RoleFranchisee:
				franchiseID, err := s.franchiseIDByName(ctx, c, role.Object)
				if err != nil {
					return err
				}
				user.Roles[i].ObjectID = franchiseID
			case models.RoleDiner, models.RoleAdmin:
				user.Roles[i].ObjectID = 0
			default:
				return errors.NewInvalidArgumentError(fmt.Sprintf("unknown role %q", role.Role))
			}

			_, err := c.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				user.ID, string(role.Role), user.Roles[i].ObjectID,
			)
			if err != nil {
				return err
			}
			user.Roles[i].UserID = user.ID
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// GetUser looks a user up by email and verifies the password when one is
// given. Unknown email and mismatched password are indistinguishable to the
// caller: both are NotFound. The returned value never carries the password.
func (s *DB) GetUser(ctx context.Context, conn *sql.Conn, email, plainPassword string) (models.User, error) {
	var user models.User

	err := s.withConn(ctx, conn, "getUser", func(c *sql.Conn) error {
		var hashed string
		err := c.QueryRowContext(ctx,
			`SELECT id, name, email, password FROM users WHERE email = $1`,
			email,
		).Scan(&user.ID, &user.Name, &user.Email, &hashed)
		if goerrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("unknown user")
		}
		if err != nil {
			return err
		}

		if plainPassword != "" && !s.hasher.Verify(plainPassword, hashed) {
			return errors.NewNotFoundError("unknown user")
		}

		rows, err := c.QueryContext(ctx,
			`SELECT role, object_id FROM user_roles WHERE user_id = $1`,
			user.ID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var role models.RoleAssignment
			var roleName string
			if err := rows.Scan(&roleName, &role.ObjectID); err != nil {
				return err
			}
			role.Role = models.Role(roleName)
			role.UserID = user.ID
			user.Roles = append(user.Roles, role)
		}
		return rows.Err()
	})
	if err != nil {
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// UpdateUser applies the non-empty fields, then re-reads the user on a fresh
// connection so the caller sees the persisted state.
func (s *DB) UpdateUser(ctx context.Context, conn *sql.Conn, userID int64, name, email, plainPassword string) (models.User, error) {
	err := s.withConn(ctx, conn, "updateUser", func(c *sql.Conn) error {
		var sets []string
		var values []interface{}

		if plainPassword != "" {
			hashed, err := s.hasher.Hash(plainPassword)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			values = append(values, hashed)
			sets = append(sets, fmt.Sprintf("password = $%d", len(values)))
		}
		if email != "" {
			values = append(values, email)
			sets = append(sets, fmt.Sprintf("email = $%d", len(values)))
		}
		if name != "" {
			values = append(values, name)
			sets = append(sets, fmt.Sprintf("name = $%d", len(values)))
		}

		if len(sets) == 0 {
			return nil
		}

		values = append(values, userID)
		query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(values))
		_, err := c.ExecContext(ctx, query, values...)
		return err
	})
	if err != nil {
		return models.User{}, err
	}

	// Reads after the write, deliberately on its own connection.
	return s.GetUser(ctx, nil, email, plainPassword)
}

// DeleteUser removes the user row. Role assignments are left to their own
// lifecycle, matching the rest of the layer's non-cascading writes.
func (s *DB) DeleteUser(ctx context.Context, conn *sql.Conn, userID int64) error {
	return s.withConn(ctx, conn, "deleteUser", func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
		return err
	})
}

// GetUsers is the paginated user search. It fetches limit+1 rows, trims, and
// reports whether more rows matched. Each row carries a comma-joined role
// summary.
func (s *DB) GetUsers(ctx context.Context, conn *sql.Conn, page, limit int, nameFilter string) ([]models.UserSummary, bool, error) {
	fetch, offset, err := pageBounds(page, limit)
	if err != nil {
		return nil, false, err
	}
	filter := translateNameFilter(nameFilter)

	var users []models.UserSummary
	more := false

	err = s.withConn(ctx, conn, "getUsers", func(c *sql.Conn) error {
		query := fmt.Sprintf(`
			SELECT u.id, u.name, u.email, string_agg(ur.role, ', ') AS roles
			FROM users u
			JOIN user_roles ur ON ur.user_id = u.id
			WHERE u.name LIKE $1
			GROUP BY u.id, u.name, u.email
			ORDER BY u.id
			LIMIT %d OFFSET %d`, fetch, offset)

		rows, err := c.QueryContext(ctx, query, filter)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.UserSummary
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Roles); err != nil {
				return err
			}
			users = append(users, u)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if len(users) > limit {
			users = users[:limit]
			more = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return users, more, nil
}
