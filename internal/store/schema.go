// internal/store/schema.go
package store

// tableCreateStatements are applied in order on every bootstrap. All are
// idempotent; existing tables are never dropped or altered.
var tableCreateStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		object_id BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_roles_user_id ON user_roles (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_user_roles_object_id ON user_roles (object_id)`,
	`CREATE TABLE IF NOT EXISTS menu (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image TEXT NOT NULL,
		price NUMERIC(12,8) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS franchises (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id BIGSERIAL PRIMARY KEY,
		franchise_id BIGINT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_franchise_id ON stores (franchise_id)`,
	`CREATE TABLE IF NOT EXISTS diner_orders (
		id BIGSERIAL PRIMARY KEY,
		diner_id BIGINT NOT NULL,
		franchise_id BIGINT NOT NULL,
		store_id BIGINT NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_diner_orders_diner_id ON diner_orders (diner_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL,
		menu_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC(12,8) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS auth (
		token TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL
	)`,
}
