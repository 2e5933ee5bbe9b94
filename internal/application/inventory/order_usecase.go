package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RecentOrderDays ventana de ListRecent.
const RecentOrderDays = 30

// OrderUseCase gestiona órdenes de compra. Las mutaciones de línea acreditan o revierten stock
// según la política configurada y recalculan el total en la misma transacción;
// las alertas se evalúan después del commit.
type OrderUseCase struct {
	txRunner  TxRunner
	ledger    *StockLedger
	valuation *Valuation
	alerts    *AlertEngine
	orders    repository.OrderRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	pdf       OrderPDFGenerator
	policy    CreditPolicy
	log       zerolog.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. pdf puede ser nil (OrderPDF devolverá error).
func NewOrderUseCase(
	txRunner TxRunner,
	ledger *StockLedger,
	valuation *Valuation,
	alerts *AlertEngine,
	orders repository.OrderRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	pdf OrderPDFGenerator,
	policy CreditPolicy,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:  txRunner,
		ledger:    ledger,
		valuation: valuation,
		alerts:    alerts,
		orders:    orders,
		suppliers: suppliers,
		products:  products,
		pdf:       pdf,
		policy:    policy,
		log:       log,
		now:       time.Now,
	}
}

// CreateOrder crea una orden PENDING con líneas opcionales.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, domain.Invalid("supplier_id", "es requerido")
	}
	for _, l := range in.Lines {
		if err := validateOrderLine(l); err != nil {
			return nil, err
		}
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	order := &entity.Order{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Status:     entity.OrderStatusPending,
		Notes:      strings.TrimSpace(in.Notes),
		OrderDate:  now,
		TotalValue: decimal.Zero,
		CreatedBy:  userID,
		UpdatedAt:  now,
	}
	var touched []string
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := lockProducts(ctx, repos, orderLineProducts(in.Lines)); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line, err := uc.addLine(ctx, repos, order, l, userID)
			if err != nil {
				return err
			}
			touched = append(touched, line.ProductID)
		}
		_, err := uc.valuation.RecomputeOrder(ctx, repos, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, touched)
	return uc.GetOrder(ctx, order.ID)
}

// GetOrder devuelve la orden con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order, lines)
	return &resp, nil
}

// ListOrders lista órdenes (sin líneas), más recientes primero.
func (uc *OrderUseCase) ListOrders(ctx context.Context, filter repository.OrderFilter, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	if filter.Status != "" {
		filter.Status = strings.ToUpper(filter.Status)
		if !validOrderStatus(filter.Status) {
			return nil, domain.Invalid("status", "estado de orden desconocido")
		}
	}
	list, err := uc.orders.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListRecent lista las órdenes de los últimos RecentOrderDays días.
func (uc *OrderUseCase) ListRecent(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	since := uc.now().AddDate(0, 0, -RecentOrderDays)
	return uc.ListOrders(ctx, repository.OrderFilter{Since: &since}, page)
}

// CreateOrderLine agrega una línea a una orden PENDING.
func (uc *OrderUseCase) CreateOrderLine(ctx context.Context, userID, orderID string, in dto.OrderLineRequest) (*dto.OrderLineResponse, error) {
	if err := validateOrderLine(in); err != nil {
		return nil, err
	}
	var line *entity.OrderLine
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := lockPendingOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		line, err = uc.addLine(ctx, repos, order, in, userID)
		if err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeOrder(ctx, repos, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, []string{line.ProductID})
	resp := toOrderLineResponse(line)
	return &resp, nil
}

// UpdateOrderLine cambia cantidad y/o precio. Si el stock ya se acreditó, revierte la cantidad
// anterior y acredita la nueva.
func (uc *OrderUseCase) UpdateOrderLine(ctx context.Context, userID, lineID string, in dto.UpdateLineRequest) (*dto.OrderLineResponse, error) {
	if err := validateLineUpdate(in); err != nil {
		return nil, err
	}
	var line *entity.OrderLine
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		line, err = lockOrderLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		order, err := lockPendingOrder(ctx, repos, line.OrderID)
		if err != nil {
			return err
		}
		newQty := line.Quantity
		if in.Quantity != nil {
			newQty = *in.Quantity
		}
		// Solo la diferencia pasa por el libro de stock.
		if line.StockApplied && newQty != line.Quantity {
			ref := MovementRef{Reference: line.ID, UserID: userID}
			if newQty > line.Quantity {
				_, err = uc.ledger.Receive(ctx, repos, line.ProductID, newQty-line.Quantity, ref)
			} else {
				_, err = uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity-newQty, domaininv.DirectionReceive, ref)
			}
			if err != nil {
				return err
			}
		}
		line.Quantity = newQty
		if in.UnitPrice != nil {
			line.UnitPrice = *in.UnitPrice
		}
		line.Value = domaininv.LineValue(line.Quantity, line.UnitPrice)
		line.UpdatedAt = uc.now()
		if err := repos.Orders.UpdateLine(ctx, line); err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeOrder(ctx, repos, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.evaluate(ctx, []string{line.ProductID})
	resp := toOrderLineResponse(line)
	return &resp, nil
}

// DeleteOrderLine elimina la línea, revirtiendo el stock si se había acreditado.
func (uc *OrderUseCase) DeleteOrderLine(ctx context.Context, userID, lineID string) error {
	var productID string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		line, err := lockOrderLine(ctx, repos, lineID)
		if err != nil {
			return err
		}
		if _, err := lockPendingOrder(ctx, repos, line.OrderID); err != nil {
			return err
		}
		productID = line.ProductID
		if line.StockApplied {
			ref := MovementRef{Reference: line.ID, UserID: userID}
			if _, err := uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity, domaininv.DirectionReceive, ref); err != nil {
				return err
			}
		}
		if err := repos.Orders.DeleteLine(ctx, line.ID); err != nil {
			return err
		}
		_, err = uc.valuation.RecomputeOrder(ctx, repos, line.OrderID)
		return err
	})
	if err != nil {
		return err
	}
	uc.evaluate(ctx, []string{productID})
	return nil
}

// UpdateOrderStatus aplica PENDING → RECEIVED o PENDING → CANCELLED.
// RECEIVED acredita las líneas pendientes de aplicar; CANCELLED revierte las aplicadas.
// Pedir el estado actual no hace nada.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, userID, orderID, status string) (*dto.OrderResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !validOrderStatus(status) {
		return nil, domain.Invalid("status", "estado de orden desconocido")
	}
	var touched []string
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == status {
			return nil
		}
		if order.IsTerminal() || status == entity.OrderStatusPending {
			return domain.ErrInvalidTransition
		}
		lines, err := repos.Orders.ListLines(ctx, orderID)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, line := range orderLinesByProduct(lines) {
			ref := MovementRef{Reference: line.ID, UserID: userID}
			switch {
			case status == entity.OrderStatusReceived && !line.StockApplied:
				if _, err := uc.ledger.Receive(ctx, repos, line.ProductID, line.Quantity, ref); err != nil {
					return err
				}
				line.StockApplied = true
			case status == entity.OrderStatusCancelled && line.StockApplied:
				if _, err := uc.ledger.Reverse(ctx, repos, line.ProductID, line.Quantity, domaininv.DirectionReceive, ref); err != nil {
					return err
				}
				line.StockApplied = false
			default:
				continue
			}
			line.UpdatedAt = now
			if err := repos.Orders.UpdateLine(ctx, line); err != nil {
				return err
			}
			touched = append(touched, line.ProductID)
		}
		order.Status = status
		order.UpdatedAt = now
		if status == entity.OrderStatusReceived {
			order.ReceivedAt = &now
		}
		return repos.Orders.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Str("status", status).Msg("estado de orden actualizado")
	uc.evaluate(ctx, touched)
	return uc.GetOrder(ctx, orderID)
}

// OrderPDF genera el PDF de la orden de compra.
func (uc *OrderUseCase) OrderPDF(ctx context.Context, id string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, domain.ErrNotFound
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orders.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]OrderLineForPDF, 0, len(lines))
	for _, l := range lines {
		item := OrderLineForPDF{Line: l}
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p != nil {
			item.SKU = p.SKU
			item.ProductName = p.Name
		}
		pdfLines = append(pdfLines, item)
	}
	return uc.pdf.GenerateOrderPDF(ctx, order, supplier, pdfLines)
}

func (uc *OrderUseCase) addLine(ctx context.Context, repos repository.TxRepos, order *entity.Order, in dto.OrderLineRequest, userID string) (*entity.OrderLine, error) {
	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	line := &entity.OrderLine{
		ID:        uuid.New().String(),
		OrderID:   order.ID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Value:     domaininv.LineValue(in.Quantity, in.UnitPrice),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if uc.policy != CreditOnReceipt {
		ref := MovementRef{Reference: line.ID, UserID: userID}
		if _, err := uc.ledger.Receive(ctx, repos, line.ProductID, line.Quantity, ref); err != nil {
			return nil, err
		}
		line.StockApplied = true
	}
	if err := repos.Orders.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

func (uc *OrderUseCase) evaluate(ctx context.Context, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	if _, err := uc.alerts.EvaluateLowStock(ctx, productIDs...); err != nil {
		uc.log.Error().Err(err).Strs("product_ids", productIDs).Msg("evaluación de alertas falló")
	}
}

func lockPendingOrder(ctx context.Context, repos repository.TxRepos, orderID string) (*entity.Order, error) {
	order, err := repos.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsTerminal() {
		return nil, domain.ErrInvalidTransition
	}
	return order, nil
}

// lockOrderLine bloquea la orden dueña de la línea y relee la línea ya bajo el bloqueo.
func lockOrderLine(ctx context.Context, repos repository.TxRepos, lineID string) (*entity.OrderLine, error) {
	line, err := repos.Orders.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := repos.Orders.GetForUpdate(ctx, line.OrderID); err != nil {
		return nil, err
	}
	line, err = repos.Orders.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

func validOrderStatus(s string) bool {
	switch s {
	case entity.OrderStatusPending, entity.OrderStatusReceived, entity.OrderStatusCancelled:
		return true
	}
	return false
}
