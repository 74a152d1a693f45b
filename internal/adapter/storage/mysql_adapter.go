package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/shopdeskhq/shopdesk/internal/core/domain"
)

// MySQL error numbers that mark a transient, retryable failure.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// classify wraps storage errors, tagging transient MySQL failures with
// domain.ErrRetryable so the service layer can retry them.
func classify(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrRetryable, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrRetryable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// RecordSale runs the whole sale as one transaction: lock the inventory row,
// validate stock, decrement, insert the sale and the outbox event. The
// decrement is a conditional update so stock can never pass zero even if the
// locked read were ever bypassed.
func (m *MySQLAdapter) RecordSale(ctx context.Context, sale domain.Sale, event domain.OutboxEvent) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin tx", err)
	}
	defer tx.Rollback()

	var (
		productID int64
		stock     int
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, quantity_in_stock
		FROM inventory WHERE product_name = ? FOR UPDATE`,
		sale.ProductName,
	).Scan(&productID, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrProductNotFound
	}
	if err != nil {
		return 0, classify("lock inventory", err)
	}

	if stock < sale.Quantity {
		return 0, domain.ErrInsufficientStock
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE inventory
		SET quantity_in_stock = quantity_in_stock - ?
		WHERE id = ? AND quantity_in_stock >= ?`,
		sale.Quantity, productID, sale.Quantity,
	)
	if err != nil {
		return 0, classify("decrement inventory", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrInsufficientStock
	}

	result, err = tx.ExecContext(ctx, `
		INSERT INTO sales (product_id, product_name, quantity, total_price, sale_date)
		VALUES (?, ?, ?, ?, NOW())`,
		productID, sale.ProductName, sale.Quantity, sale.TotalPrice,
	)
	if err != nil {
		return 0, classify("insert sale", err)
	}
	saleID, err := result.LastInsertId()
	if err != nil {
		return 0, classify("sale id", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_events (id, admin_id, message, created_at)
		VALUES (?, ?, ?, NOW())`,
		event.ID, event.AdminID, event.Message,
	)
	if err != nil {
		return 0, classify("insert outbox event", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit sale", err)
	}

	return saleID, nil
}

const itemColumns = `id, product_name, sku, quantity_in_stock, price, description, date_added, last_restocked`

func scanItem(row *sql.Row) (*domain.InventoryItem, error) {
	var (
		item          domain.InventoryItem
		description   sql.NullString
		lastRestocked sql.NullTime
	)
	err := row.Scan(
		&item.ID, &item.ProductName, &item.SKU, &item.QuantityInStock,
		&item.Price, &description, &item.DateAdded, &lastRestocked,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	if lastRestocked.Valid {
		t := lastRestocked.Time
		item.LastRestocked = &t
	}
	return &item, nil
}

func (m *MySQLAdapter) GetItemByName(ctx context.Context, productName string) (*domain.InventoryItem, error) {
	item, err := scanItem(m.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE product_name = ?`, productName))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, classify("query inventory by name", err)
	}
	return item, nil
}

func (m *MySQLAdapter) GetItemBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	item, err := scanItem(m.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE sku = ?`, sku))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, classify("query inventory by sku", err)
	}
	return item, nil
}

func (m *MySQLAdapter) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory ORDER BY date_added DESC`)
	if err != nil {
		return nil, classify("list inventory", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (m *MySQLAdapter) ItemsBelowThreshold(ctx context.Context, threshold int) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM inventory WHERE quantity_in_stock < ? ORDER BY quantity_in_stock ASC`,
		threshold)
	if err != nil {
		return nil, classify("list low stock", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	for rows.Next() {
		var (
			item          domain.InventoryItem
			description   sql.NullString
			lastRestocked sql.NullTime
		)
		err := rows.Scan(
			&item.ID, &item.ProductName, &item.SKU, &item.QuantityInStock,
			&item.Price, &description, &item.DateAdded, &lastRestocked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		item.Description = description.String
		if lastRestocked.Valid {
			t := lastRestocked.Time
			item.LastRestocked = &t
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) AddItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	description := sql.NullString{String: item.Description, Valid: item.Description != ""}
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory (product_name, sku, quantity_in_stock, price, description, date_added)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		item.ProductName, item.SKU, item.QuantityInStock, item.Price, description,
	)
	if err != nil {
		return 0, classify("insert inventory item", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, classify("inventory item id", err)
	}
	return id, nil
}

func (m *MySQLAdapter) SetQuantity(ctx context.Context, productName string, quantity int) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE inventory
		SET quantity_in_stock = ?, last_restocked = NOW()
		WHERE product_name = ?`,
		quantity, productName,
	)
	if err != nil {
		return classify("set quantity", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (m *MySQLAdapter) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	description := sql.NullString{String: item.Description, Valid: item.Description != ""}
	result, err := m.db.ExecContext(ctx, `
		UPDATE inventory
		SET sku = ?, quantity_in_stock = ?, price = ?, description = ?
		WHERE product_name = ?`,
		item.SKU, item.QuantityInStock, item.Price, description, item.ProductName,
	)
	if err != nil {
		return classify("update inventory item", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (m *MySQLAdapter) DeleteItem(ctx context.Context, productName string) error {
	result, err := m.db.ExecContext(ctx,
		`DELETE FROM inventory WHERE product_name = ?`, productName)
	if err != nil {
		return classify("delete inventory item", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
