// internal/store/order.go
package store

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"

	"pizza-store/internal/common/errors"
	"pizza-store/internal/models"
)

// GetOrders returns one page of the diner's order history, items nested per
// order. Pages are 1-based and sized by the configured list length.
func (s *DB) GetOrders(ctx context.Context, conn *sql.Conn, user models.User, page int) (models.OrderPage, error) {
	if page < 1 {
		return models.OrderPage{}, errors.NewInvalidArgumentError(fmt.Sprintf("page %d out of range", page))
	}

	perPage := s.cfg.Store.ListPerPage
	if perPage <= 0 {
		perPage = 10
	}
	offset := (page - 1) * perPage

	result := models.OrderPage{DinerID: user.ID, Page: page}

	err := s.withConn(ctx, conn, "getOrders", func(c *sql.Conn) error {
		query := fmt.Sprintf(
			`SELECT id, franchise_id, store_id, date FROM diner_orders WHERE diner_id = $1 ORDER BY id LIMIT %d OFFSET %d`,
			perPage, offset)

		rows, err := c.QueryContext(ctx, query, user.ID)
		if err != nil {
			return err
		}

		var orders []models.Order
		for rows.Next() {
			var o models.Order
			if err := rows.Scan(&o.ID, &o.FranchiseID, &o.StoreID, &o.Date); err != nil {
				rows.Close()
				return err
			}
			o.DinerID = user.ID
			orders = append(orders, o)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for i := range orders {
			items, err := s.orderItems(ctx, c, orders[i].ID)
			if err != nil {
				return err
			}
			orders[i].Items = items
		}

		result.Orders = orders
		return nil
	})
	if err != nil {
		return models.OrderPage{}, err
	}
	return result, nil
}

func (s *DB) orderItems(ctx context.Context, c *sql.Conn, orderID int64) ([]models.OrderItem, error) {
	rows, err := c.QueryContext(ctx,
		`SELECT id, menu_id, description, price FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Description, &item.Price); err != nil {
			return nil, err
		}
		item.OrderID = orderID
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddDinerOrder inserts the order header, then one row per item, resolving
// each item's menu reference first. A missing menu item fails NotFound and
// leaves the header and earlier items in place; only deleteFranchise gets an
// explicit transaction in this layer.
func (s *DB) AddDinerOrder(ctx context.Context, conn *sql.Conn, user models.User, order models.Order) (models.Order, error) {
	err := s.withConn(ctx, conn, "addDinerOrder", func(c *sql.Conn) error {
		err := c.QueryRowContext(ctx,
			`INSERT INTO diner_orders (diner_id, franchise_id, store_id, date) VALUES ($1, $2, $3, now()) RETURNING id, date`,
			user.ID, order.FranchiseID, order.StoreID,
		).Scan(&order.ID, &order.Date)
		if err != nil {
			return err
		}
		order.DinerID = user.ID

		for i, item := range order.Items {
			menuID, err := s.menuItemID(ctx, c, item.MenuID)
			if err != nil {
				return err
			}

			err = c.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, menu_id, description, price) VALUES ($1, $2, $3, $4) RETURNING id`,
				order.ID, menuID, item.Description, item.Price,
			).Scan(&order.Items[i].ID)
			if err != nil {
				return err
			}
			order.Items[i].OrderID = order.ID
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// menuItemID resolves a menu reference, failing NotFound when absent.
func (s *DB) menuItemID(ctx context.Context, c *sql.Conn, menuID int64) (int64, error) {
	var id int64
	err := c.QueryRowContext(ctx, `SELECT id FROM menu WHERE id = $1`, menuID).Scan(&id)
	if goerrors.Is(err, sql.ErrNoRows) {
		return 0, errors.NewNotFoundError(fmt.Sprintf("no menu item %d found", menuID))
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}
