// Package stubapi implements a development backend exposing the REST
// surface the client consumes, so the client can be exercised
// end-to-end without the production deployment.
package stubapi

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jewelapp/jewel-client/internal/domain"
	errs "github.com/jewelapp/jewel-client/internal/errors"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for the development backend.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore creates the backing database at the given path, configures
// WAL mode, and runs the schema migration.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const timeFormat = time.RFC3339Nano

func now() string {
	return time.Now().UTC().Format(timeFormat)
}

// === Users ===

// userRecord is a stored user plus credentials.
type userRecord struct {
	User         domain.User
	PasswordHash string
}

// CreateUser inserts a new user. Usernames are unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, user *domain.User, passwordHash string) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	ts := now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, username, username_lower,
			password_hash, role, whatsapp_number, alternate_number, address,
			pincode, state, district)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, ts, ts, user.Username, strings.ToLower(user.Username),
		passwordHash, string(user.Role), user.WhatsappNumber, user.AlternateNumber,
		user.Address, user.Pincode, user.State, user.District,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errs.Conflict("username already taken")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByUsername returns a user and password hash by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*userRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, whatsapp_number,
			alternate_number, address, pincode, state, district
		FROM users WHERE username_lower = ?`,
		strings.ToLower(username),
	)
	return scanUserRecord(row)
}

// GetUserByID returns a user by ID.
func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, whatsapp_number,
			alternate_number, address, pincode, state, district
		FROM users WHERE id = ?`,
		userID,
	)
	record, err := scanUserRecord(row)
	if err != nil {
		return nil, err
	}
	return &record.User, nil
}

// UpdateUser overwrites the mutable profile fields.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET updated_at = ?, whatsapp_number = ?,
			alternate_number = ?, address = ?, pincode = ?, state = ?, district = ?
		WHERE id = ?`,
		now(), user.WhatsappNumber, user.AlternateNumber,
		user.Address, user.Pincode, user.State, user.District, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}

func scanUserRecord(row *sql.Row) (*userRecord, error) {
	var record userRecord
	var role string
	err := row.Scan(
		&record.User.ID,
		&record.User.Username,
		&record.PasswordHash,
		&role,
		&record.User.WhatsappNumber,
		&record.User.AlternateNumber,
		&record.User.Address,
		&record.User.Pincode,
		&record.User.State,
		&record.User.District,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.NotFound("user not found")
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	record.User.Role = domain.Role(role)
	return &record, nil
}

// === Cart ===

// CartItems returns the user's cart lines.
func (s *Store) CartItems(ctx context.Context, userID string) (domain.Cart, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.product_id, c.size, c.metal, c.quantity,
			COALESCE(p.title, ''), COALESCE(p.price, 0), COALESCE(p.images, '[]')
		FROM cart_items c
		LEFT JOIN products p ON p.id = c.product_id
		WHERE c.user_id = ?
		ORDER BY c.product_id, c.size, c.metal`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	cart := domain.Cart{}
	for rows.Next() {
		var item domain.CartItem
		var images string
		if err := rows.Scan(&item.ProductID, &item.Size, &item.Metal, &item.Quantity,
			&item.Title, &item.Price, &images); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		var urls []string
		if err := json.Unmarshal([]byte(images), &urls); err == nil && len(urls) > 0 {
			item.Image = urls[0]
		}
		cart = append(cart, item)
	}
	return cart, rows.Err()
}

// AddCartItem adds quantity to a cart line, creating the line when the
// variant is not in the cart yet.
func (s *Store) AddCartItem(ctx context.Context, userID string, item domain.CartItem) error {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, metal, quantity)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, product_id, size, metal)
		DO UPDATE SET quantity = quantity + excluded.quantity`,
		userID, item.ProductID, item.Size, item.Metal, qty,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

// RemoveCartItems drops every cart line for the product.
func (s *Store) RemoveCartItems(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove cart items: %w", err)
	}
	return nil
}

// ClearCart empties the user's cart.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// === Wishlist ===

// WishlistIDs returns the user's wishlisted product IDs, oldest first.
func (s *Store) WishlistIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM wishlist_items WHERE user_id = ? ORDER BY added_at, product_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddWishlistItem records a product on the wishlist. Re-adding is a no-op.
func (s *Store) AddWishlistItem(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID, now(),
	)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

// RemoveWishlistItem drops a product from the wishlist. Absent is a no-op.
func (s *Store) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

// === Products ===

// UpsertProduct inserts or replaces a product.
func (s *Store) UpsertProduct(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	metals, err := json.Marshal(product.Metals)
	if err != nil {
		return fmt.Errorf("marshal metals: %w", err)
	}
	sizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return fmt.Errorf("marshal sizes: %w", err)
	}
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	ts := now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, created_at, updated_at, title, description,
			price, category, metals, sizes, images, in_stock, blur_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			updated_at = excluded.updated_at,
			title = excluded.title,
			description = excluded.description,
			price = excluded.price,
			category = excluded.category,
			metals = excluded.metals,
			sizes = excluded.sizes,
			images = excluded.images,
			in_stock = excluded.in_stock,
			blur_hash = excluded.blur_hash`,
		product.ID, ts, ts, product.Title, product.DescriptionHTML,
		product.Price, product.Category, string(metals), string(sizes),
		string(images), boolToInt(product.InStock), product.BlurHash,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// ListProducts returns the full catalog.
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at, title, description, price,
			category, metals, sizes, images, in_stock, blur_hash
		FROM products ORDER BY title`,
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at, title, description, price,
			category, metals, sizes, images, in_stock, blur_hash
		FROM products WHERE id = ?`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NotFound("product not found")
	}
	return scanProduct(rows)
}

func scanProduct(rows *sql.Rows) (*domain.Product, error) {
	var product domain.Product
	var createdAt, updatedAt, metals, sizes, images string
	var inStock int

	err := rows.Scan(
		&product.ID, &createdAt, &updatedAt, &product.Title,
		&product.DescriptionHTML, &product.Price, &product.Category,
		&metals, &sizes, &images, &inStock, &product.BlurHash,
	)
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}

	product.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	product.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	product.InStock = inStock != 0

	if err := json.Unmarshal([]byte(metals), &product.Metals); err != nil {
		return nil, fmt.Errorf("unmarshal metals: %w", err)
	}
	if err := json.Unmarshal([]byte(sizes), &product.Sizes); err != nil {
		return nil, fmt.Errorf("unmarshal sizes: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &product.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	return &product, nil
}

// === Orders ===

// InsertOrder stores a placed order.
func (s *Store) InsertOrder(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("marshal shipping: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, created_at, status, total, items, shipping)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.CreatedAt.UTC().Format(timeFormat),
		string(order.Status), order.Total, string(items), string(shipping),
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// OrdersByUser returns the user's orders, newest first.
func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, status, total, items, shipping
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var order domain.Order
		var createdAt, status, items, shipping string
		if err := rows.Scan(&order.ID, &order.UserID, &createdAt, &status,
			&order.Total, &items, &shipping); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		order.Status = domain.OrderStatus(status)
		if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
		if err := json.Unmarshal([]byte(shipping), &order.Shipping); err != nil {
			return nil, fmt.Errorf("unmarshal shipping: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
