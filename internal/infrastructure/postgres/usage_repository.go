package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

const (
	usageColumns     = `id, usage_type, notes, date, total_value, created_by, updated_at`
	usageLineColumns = `id, usage_id, product_id, quantity, unit_price, value, created_at, updated_at`
)

// UsageRepo persiste usos (salidas de stock) y sus líneas.
type UsageRepo struct {
	q Querier
}

// NewUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsageRepository(q Querier) *UsageRepo {
	return &UsageRepo{q: q}
}

func scanUsage(row rowScanner) (*entity.Usage, error) {
	var u entity.Usage
	if err := row.Scan(&u.ID, &u.UsageType, &u.Notes, &u.Date, &u.TotalValue, &u.CreatedBy, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUsageLine(row rowScanner) (*entity.UsageLine, error) {
	var l entity.UsageLine
	err := row.Scan(&l.ID, &l.UsageID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Value, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *UsageRepo) Create(ctx context.Context, u *entity.Usage) error {
	query := `INSERT INTO usages (` + usageColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, u.ID, u.UsageType, u.Notes, u.Date, u.TotalValue, u.CreatedBy, u.UpdatedAt); err != nil {
		return writeError("insert usage", err)
	}
	return nil
}

func (r *UsageRepo) getOne(ctx context.Context, query, id string) (*entity.Usage, error) {
	u, err := scanUsage(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage: %w", err)
	}
	return u, nil
}

func (r *UsageRepo) GetByID(ctx context.Context, id string) (*entity.Usage, error) {
	return r.getOne(ctx, `SELECT `+usageColumns+` FROM usages WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del uso (SELECT FOR UPDATE).
func (r *UsageRepo) GetForUpdate(ctx context.Context, id string) (*entity.Usage, error) {
	return r.getOne(ctx, `SELECT `+usageColumns+` FROM usages WHERE id = $1 FOR UPDATE`, id)
}

func (r *UsageRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE usages SET total_value = $2, updated_at = now() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update usage total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por fecha descendente; From/To son inclusivos.
func (r *UsageRepo) List(ctx context.Context, f repository.UsageFilter, limit, offset int) ([]*entity.Usage, error) {
	var w where
	if f.UsageType != "" {
		w.add("usage_type = ?", f.UsageType)
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}
	query := `SELECT ` + usageColumns + ` FROM usages` + w.sql() + ` ORDER BY date DESC, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Usage
	for rows.Next() {
		u, err := scanUsage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete devuelve domain.ErrConflict si aún tiene líneas (usage_lines.usage_id es RESTRICT).
func (r *UsageRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usages WHERE id = $1`, id)
	if err != nil {
		return writeError("delete usage", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsageRepo) CreateLine(ctx context.Context, l *entity.UsageLine) error {
	query := `INSERT INTO usage_lines (` + usageLineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.UsageID, l.ProductID, l.Quantity, l.UnitPrice, l.Value, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return writeError("insert usage line", err)
	}
	return nil
}

func (r *UsageRepo) GetLine(ctx context.Context, id string) (*entity.UsageLine, error) {
	l, err := scanUsageLine(r.q.QueryRow(ctx, `SELECT `+usageLineColumns+` FROM usage_lines WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage line: %w", err)
	}
	return l, nil
}

func (r *UsageRepo) ListLines(ctx context.Context, usageID string) ([]*entity.UsageLine, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+usageLineColumns+` FROM usage_lines WHERE usage_id = $1 ORDER BY created_at, id`, usageID)
	if err != nil {
		return nil, fmt.Errorf("list usage lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.UsageLine
	for rows.Next() {
		l, err := scanUsageLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usage line: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *UsageRepo) UpdateLine(ctx context.Context, l *entity.UsageLine) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE usage_lines SET quantity = $2, unit_price = $3, value = $4, updated_at = $5 WHERE id = $1`,
		l.ID, l.Quantity, l.UnitPrice, l.Value, l.UpdatedAt)
	if err != nil {
		return writeError("update usage line", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UsageRepo) DeleteLine(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM usage_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete usage line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
