package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

const expiryScanBatch = 200

// AlertEngine abre alertas LOW_STOCK y EXPIRY y gestiona su lectura.
// Por (producto, tipo) una alerta pasa de inexistente a abierta y de abierta a leída;
// nunca se cierra sola al reponer stock.
type AlertEngine struct {
	products repository.ProductRepository
	alerts   repository.AlertRepository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewAlertEngine construye el motor. notifier nil descarta los avisos externos.
func NewAlertEngine(
	products repository.ProductRepository,
	alerts repository.AlertRepository,
	notifier Notifier,
	log zerolog.Logger,
) *AlertEngine {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &AlertEngine{
		products: products,
		alerts:   alerts,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// EvaluateLowStock revisa el stock confirmado de cada producto y abre una alerta LOW_STOCK
// si quantity <= reorder_level y no hay otra sin leer. Devuelve las alertas creadas.
func (e *AlertEngine) EvaluateLowStock(ctx context.Context, productIDs ...string) ([]*entity.Alert, error) {
	var created []*entity.Alert
	seen := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		product, err := e.products.GetByID(ctx, id)
		if err != nil {
			return created, err
		}
		if product == nil || !domaininv.NeedsLowStockAlert(product.Quantity, product.ReorderLevel) {
			continue
		}
		alert, err := e.open(ctx, product, entity.AlertTypeLowStock,
			domaininv.LowStockSubject(product.Name),
			domaininv.LowStockMessage(product.Name, product.Quantity, product.ReorderLevel))
		if err != nil {
			return created, err
		}
		if alert != nil {
			created = append(created, alert)
		}
	}
	return created, nil
}

// ScanExpired abre una alerta EXPIRY para cada producto vencido que no tenga una sin leer.
func (e *AlertEngine) ScanExpired(ctx context.Context) ([]*entity.Alert, error) {
	now := e.now()
	var created []*entity.Alert
	for offset := 0; ; offset += expiryScanBatch {
		products, err := e.products.List(ctx, repository.ProductFilter{ExpiresBefore: &now}, expiryScanBatch, offset)
		if err != nil {
			return created, err
		}
		for _, p := range products {
			if !domaininv.IsExpired(p.ExpiryDate, now) {
				continue
			}
			alert, err := e.open(ctx, p, entity.AlertTypeExpiry,
				domaininv.ExpirySubject(p.Name),
				domaininv.ExpiryMessage(p.Name, *p.ExpiryDate))
			if err != nil {
				return created, err
			}
			if alert != nil {
				created = append(created, alert)
			}
		}
		if len(products) < expiryScanBatch {
			break
		}
	}
	e.log.Info().Int("created", len(created)).Msg("barrido de vencimientos completado")
	return created, nil
}

func (e *AlertEngine) open(ctx context.Context, product *entity.Product, alertType, subject, message string) (*entity.Alert, error) {
	existing, err := e.alerts.FindOpen(ctx, product.ID, alertType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	alert := &entity.Alert{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      alertType,
		Message:   message,
		CreatedAt: e.now(),
	}
	if err := e.alerts.Create(ctx, alert); err != nil {
		// Otra petición abrió la misma alerta entre FindOpen y Create.
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, nil
		}
		return nil, err
	}
	e.log.Info().
		Str("alert_id", alert.ID).
		Str("product_id", product.ID).
		Str("type", alertType).
		Msg("alerta abierta")

	e.notifier.Notify(Notice{
		AlertID:   alert.ID,
		AlertType: alertType,
		ProductID: product.ID,
		SKU:       product.SKU,
		Subject:   subject,
		Body:      message,
		CreatedAt: alert.CreatedAt,
	})
	return alert, nil
}

// MarkRead marca una alerta como leída. Marcar una alerta ya leída no la modifica.
func (e *AlertEngine) MarkRead(ctx context.Context, id string) (*dto.AlertResponse, error) {
	alert, err := e.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if !alert.IsRead {
		now := e.now()
		if err := e.alerts.MarkRead(ctx, id, now); err != nil {
			return nil, err
		}
		alert.IsRead = true
		alert.ReadAt = &now
	}
	resp := toAlertResponse(alert)
	return &resp, nil
}

// MarkAllRead marca como leídas todas las alertas abiertas, opcionalmente de un solo tipo.
func (e *AlertEngine) MarkAllRead(ctx context.Context, alertType string) (int64, error) {
	alertType = strings.ToUpper(strings.TrimSpace(alertType))
	if alertType != "" && !entity.ValidAlertType(alertType) {
		return 0, domain.Invalid("type", "tipo de alerta desconocido")
	}
	n, err := e.alerts.MarkAllRead(ctx, alertType, e.now())
	if err != nil {
		return 0, err
	}
	e.log.Info().Str("type", alertType).Int64("count", n).Msg("alertas marcadas como leídas")
	return n, nil
}

// List devuelve alertas paginadas.
func (e *AlertEngine) List(ctx context.Context, filter repository.AlertFilter, page dto.PageRequest) (*dto.AlertListResponse, error) {
	page.DefaultPage()
	filter.Type = strings.ToUpper(strings.TrimSpace(filter.Type))
	if filter.Type != "" && !entity.ValidAlertType(filter.Type) {
		return nil, domain.Invalid("type", "tipo de alerta desconocido")
	}
	list, err := e.alerts.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAlertResponse(a))
	}
	return &dto.AlertListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
