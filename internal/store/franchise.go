// internal/store/franchise.go
package store

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"

	"github.com/lib/pq"

	"pizza-store/internal/common/errors"
	"pizza-store/internal/models"
)

// CreateFranchise resolves every admin by email first — failing NotFound
// before any row is written — then inserts the franchise and one franchisee
// role per admin.
func (s *DB) CreateFranchise(ctx context.Context, conn *sql.Conn, franchise models.Franchise) (models.Franchise, error) {
	err := s.withConn(ctx, conn, "createFranchise", func(c *sql.Conn) error {
		for i, admin := range franchise.Admins {
			var id int64
			var name string
			err := c.QueryRowContext(ctx,
				`SELECT id, name FROM users WHERE email = $1`,
				admin.Email,
			).Scan(&id, &name)
			if goerrors.Is(err, sql.ErrNoRows) {
				return errors.NewNotFoundError(fmt.Sprintf("unknown user for franchise admin %s provided", admin.Email))
			}
			if err != nil {
				return err
			}
			franchise.Admins[i].ID = id
			franchise.Admins[i].Name = name
		}

		err := c.QueryRowContext(ctx,
			`INSERT INTO franchises (name) VALUES ($1) RETURNING id`,
			franchise.Name,
		).Scan(&franchise.ID)
		if err != nil {
			return err
		}

		for _, admin := range franchise.Admins {
			_, err := c.ExecContext(ctx,
				`INSERT INTO user_roles (user_id, role, object_id) VALUES ($1, $2, $3)`,
				admin.ID, string(models.RoleFranchisee), franchise.ID,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Franchise{}, err
	}
	return franchise, nil
}

// DeleteFranchise removes a franchise, its stores, and its franchisee role
// assignments as one atomic unit. This is the only operation in the layer
// with explicit transaction demarcation; any step's failure rolls the whole
// cascade back before surfacing.
func (s *DB) DeleteFranchise(ctx context.Context, conn *sql.Conn, franchiseID int64) error {
	return s.withConn(ctx, conn, "deleteFranchise", func(c *sql.Conn) error {
		tx, err := c.BeginTx(ctx, nil)
		if err != nil {
			return errors.NewTransactionFailureError("unable to delete franchise", err)
		}

		steps := []struct {
			query string
			arg   int64
		}{
			{`DELETE FROM stores WHERE franchise_id = $1`, franchiseID},
			{`DELETE FROM user_roles WHERE object_id = $1`, franchiseID},
			{`DELETE FROM franchises WHERE id = $1`, franchiseID},
		}

		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, step.arg); err != nil {
				_ = tx.Rollback()
				return errors.NewTransactionFailureError("unable to delete franchise", err)
			}
		}

		if err := tx.Commit(); err != nil {
			_ = tx.Rollback()
			return errors.NewTransactionFailureError("unable to delete franchise", err)
		}
		return nil
	})
}

// GetFranchises is the paginated franchise search. Every franchise gets its
// stores nested; admin callers get full admin and revenue detail per
// franchise instead, which is the expensive path. The privilege decision
// itself belongs to the caller — this layer only branches on the flag.
func (s *DB) GetFranchises(ctx context.Context, conn *sql.Conn, adminCaller bool, page, limit int, nameFilter string) ([]models.Franchise, bool, error) {
	fetch, offset, err := pageBounds(page, limit)
	if err != nil {
		return nil, false, err
	}
	filter := translateNameFilter(nameFilter)

	var franchises []models.Franchise
	more := false

	err = s.withConn(ctx, conn, "getFranchises", func(c *sql.Conn) error {
		query := fmt.Sprintf(
			`SELECT id, name FROM franchises WHERE name LIKE $1 ORDER BY id LIMIT %d OFFSET %d`,
			fetch, offset)

		rows, err := c.QueryContext(ctx, query, filter)
		if err != nil {
			return err
		}

		for rows.Next() {
			var f models.Franchise
			if err := rows.Scan(&f.ID, &f.Name); err != nil {
				rows.Close()
				return err
			}
			franchises = append(franchises, f)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if len(franchises) > limit {
			franchises = franchises[:limit]
			more = true
		}

		for i := range franchises {
			if adminCaller {
				if err := s.fillFranchise(ctx, c, &franchises[i]); err != nil {
					return err
				}
			} else {
				stores, err := s.franchiseStores(ctx, c, franchises[i].ID, false)
				if err != nil {
					return err
				}
				franchises[i].Stores = stores
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return franchises, more, nil
}

// GetUserFranchises returns the franchises a user administers, with full
// admin and revenue detail.
func (s *DB) GetUserFranchises(ctx context.Context, conn *sql.Conn, userID int64) ([]models.Franchise, error) {
	var franchises []models.Franchise

	err := s.withConn(ctx, conn, "getUserFranchises", func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx,
			`SELECT object_id FROM user_roles WHERE role = $1 AND user_id = $2`,
			string(models.RoleFranchisee), userID,
		)
		if err != nil {
			return err
		}

		var ids []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		if len(ids) == 0 {
			return nil
		}

		frows, err := c.QueryContext(ctx,
			`SELECT id, name FROM franchises WHERE id = ANY($1)`,
			pq.Array(ids),
		)
		if err != nil {
			return err
		}

		for frows.Next() {
			var f models.Franchise
			if err := frows.Scan(&f.ID, &f.Name); err != nil {
				frows.Close()
				return err
			}
			franchises = append(franchises, f)
		}
		if err := frows.Err(); err != nil {
			frows.Close()
			return err
		}
		frows.Close()

		for i := range franchises {
			if err := s.fillFranchise(ctx, c, &franchises[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return franchises, nil
}

// GetFranchise fills a franchise with its admins and per-store revenue.
func (s *DB) GetFranchise(ctx context.Context, conn *sql.Conn, franchise *models.Franchise) error {
	return s.withConn(ctx, conn, "getFranchise", func(c *sql.Conn) error {
		return s.fillFranchise(ctx, c, franchise)
	})
}

// fillFranchise is the shared detail path for admin-level listings.
func (s *DB) fillFranchise(ctx context.Context, c *sql.Conn, franchise *models.Franchise) error {
	rows, err := c.QueryContext(ctx,
		`SELECT u.id, u.name, u.email
		 FROM user_roles ur
		 JOIN users u ON u.id = ur.user_id
		 WHERE ur.object_id = $1 AND ur.role = $2`,
		franchise.ID, string(models.RoleFranchisee),
	)
	if err != nil {
		return err
	}

	var admins []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			rows.Close()
			return err
		}
		admins = append(admins, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()
	franchise.Admins = admins

	stores, err := s.franchiseStores(ctx, c, franchise.ID, true)
	if err != nil {
		return err
	}
	franchise.Stores = stores
	return nil
}

// franchiseStores lists a franchise's stores, optionally with revenue
// aggregated from order items; stores without orders report zero.
func (s *DB) franchiseStores(ctx context.Context, c *sql.Conn, franchiseID int64, withRevenue bool) ([]models.Store, error) {
	var rows *sql.Rows
	var err error

	if withRevenue {
		rows, err = c.QueryContext(ctx,
			`SELECT s.id, s.name, COALESCE(SUM(oi.price), 0) AS total_revenue
			 FROM stores s
			 LEFT JOIN diner_orders o ON o.store_id = s.id
			 LEFT JOIN order_items oi ON oi.order_id = o.id
			 WHERE s.franchise_id = $1
			 GROUP BY s.id, s.name
			 ORDER BY s.id`,
			franchiseID,
		)
	} else {
		rows, err = c.QueryContext(ctx,
			`SELECT id, name FROM stores WHERE franchise_id = $1 ORDER BY id`,
			franchiseID,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var st models.Store
		if withRevenue {
			err = rows.Scan(&st.ID, &st.Name, &st.TotalRevenue)
		} else {
			err = rows.Scan(&st.ID, &st.Name)
		}
		if err != nil {
			return nil, err
		}
		st.FranchiseID = franchiseID
		stores = append(stores, st)
	}
	return stores, rows.Err()
}

// CreateStore inserts one store under a franchise.
func (s *DB) CreateStore(ctx context.Context, conn *sql.Conn, franchiseID int64, store models.Store) (models.Store, error) {
	err := s.withConn(ctx, conn, "createStore", func(c *sql.Conn) error {
		return c.QueryRowContext(ctx,
			`INSERT INTO stores (franchise_id, name) VALUES ($1, $2) RETURNING id`,
			franchiseID, store.Name,
		).Scan(&store.ID)
	})
	if err != nil {
		return models.Store{}, err
	}
	store.FranchiseID = franchiseID
	return store, nil
}

// DeleteStore removes one store of a franchise.
func (s *DB) DeleteStore(ctx context.Context, conn *sql.Conn, franchiseID, storeID int64) error {
	return s.withConn(ctx, conn, "deleteStore", func(c *sql.Conn) error {
		_, err := c.ExecContext(ctx,
			`DELETE FROM stores WHERE franchise_id = $1 AND id = $2`,
			franchiseID, storeID,
		)
		return err
	})
}

// franchiseIDByName resolves a franchise by name, failing NotFound when
// absent. Used when a franchisee role assignment names its franchise.
func (s *DB) franchiseIDByName(ctx context.Context, c *sql.Conn, name string) (int64, error) {
	var id int64
	err := c.QueryRowContext(ctx, `SELECT id FROM franchises WHERE name = $1`, name).Scan(&id)
	if goerrors.Is(err, sql.ErrNoRows) {
		return 0, errors.NewNotFoundError(fmt.Sprintf("no franchise %q found", name))
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
