package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// AlertFilter criterios de listado de alertas. Unread nil = todas.
type AlertFilter struct {
	Type      string
	ProductID string
	Unread    *bool
}

// AlertRepository define el puerto de persistencia para alertas.
type AlertRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una alerta abierta del mismo tipo para el producto.
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id string) (*entity.Alert, error)
	// FindOpen devuelve la alerta sin leer de (producto, tipo) o nil.
	FindOpen(ctx context.Context, productID, alertType string) (*entity.Alert, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	// MarkAllRead marca como leídas las alertas abiertas; alertType vacío = todos los tipos.
	MarkAllRead(ctx context.Context, alertType string, at time.Time) (int64, error)
	List(ctx context.Context, filter AlertFilter, limit, offset int) ([]*entity.Alert, error)
}
