// internal/store/menu.go
package store

import (
	"context"
	"database/sql"

	"pizza-store/internal/models"
)

// GetMenu returns every menu item.
func (s *DB) GetMenu(ctx context.Context, conn *sql.Conn) ([]models.MenuItem, error) {
	var items []models.MenuItem

	err := s.withConn(ctx, conn, "getMenu", func(c *sql.Conn) error {
		rows, err := c.QueryContext(ctx, `SELECT id, title, description, image, price FROM menu`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item models.MenuItem
			if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Image, &item.Price); err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddMenuItem inserts one menu item and returns it with its generated id.
func (s *DB) AddMenuItem(ctx context.Context, conn *sql.Conn, item models.MenuItem) (models.MenuItem, error) {
	err := s.withConn(ctx, conn, "addMenuItem", func(c *sql.Conn) error {
		return c.QueryRowContext(ctx,
			`INSERT INTO menu (title, description, image, price) VALUES ($1, $2, $3, $4) RETURNING id`,
			item.Title, item.Description, item.Image, item.Price,
		).Scan(&item.ID)
	})
	if err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}
