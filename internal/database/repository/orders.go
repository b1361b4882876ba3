package repository

import (
	"context"
	"database/sql"
)

// OrderRepo handles orders.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Upsert(ctx context.Context, o Order) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO orders(id, user_id, total) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 user_id=excluded.user_id,
	 total=excluded.total;
	`, o.ID, o.UserID, o.Total)
	return err
}

// Update writes o if its id exists and reports whether a row changed.
func (r *OrderRepo) Update(ctx context.Context, o Order) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET user_id = ?, total = ? WHERE id = ?`, o.UserID, o.Total, o.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	return err
}

func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	return r.query(ctx, `SELECT id, user_id, total FROM orders ORDER BY seq`)
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return r.query(ctx, `SELECT id, user_id, total FROM orders WHERE user_id = ? ORDER BY seq`, userID)
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
