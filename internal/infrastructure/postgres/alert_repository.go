package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, product_id, type, message, is_read, created_at, read_at`

// AlertRepo persiste alertas. El índice parcial alerts_open_key garantiza una abierta por (producto, tipo).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de persistencia para alertas.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

func scanAlert(row rowScanner) (*entity.Alert, error) {
	var a entity.Alert
	if err := row.Scan(&a.ID, &a.ProductID, &a.Type, &a.Message, &a.IsRead, &a.CreatedAt, &a.ReadAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserta la alerta; una abierta duplicada viola alerts_open_key y devuelve domain.ErrDuplicate.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.ProductID, a.Type, a.Message, a.IsRead, a.CreatedAt, a.ReadAt); err != nil {
		return writeError("insert alert", err)
	}
	return nil
}

func (r *AlertRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
}

func (r *AlertRepo) FindOpen(ctx context.Context, productID, alertType string) (*entity.Alert, error) {
	return r.getOne(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE product_id = $1 AND type = $2 AND NOT is_read`,
		productID, alertType)
}

// MarkRead es idempotente: una alerta ya leída conserva su read_at.
func (r *AlertRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE alerts SET is_read = true, read_at = COALESCE(read_at, $2) WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) MarkAllRead(ctx context.Context, alertType string, at time.Time) (int64, error) {
	w := where{args: []any{at}}
	w.raw("NOT is_read")
	if alertType != "" {
		w.add("type = ?", alertType)
	}
	cmd, err := r.q.Exec(ctx, `UPDATE alerts SET is_read = true, read_at = $1`+w.sql(), w.args...)
	if err != nil {
		return 0, fmt.Errorf("mark all alerts read: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// List ordena de la más reciente a la más antigua.
func (r *AlertRepo) List(ctx context.Context, f repository.AlertFilter, limit, offset int) ([]*entity.Alert, error) {
	var w where
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.ProductID != "" {
		w.add("product_id = ?::uuid", f.ProductID)
	}
	if f.Unread != nil {
		w.add("is_read = ?", !*f.Unread)
	}
	query := `SELECT ` + alertColumns + ` FROM alerts` + w.sql() + ` ORDER BY created_at DESC, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
