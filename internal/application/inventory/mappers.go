package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

func validateOrderLine(in dto.OrderLineRequest) error {
	if in.ProductID == "" {
		return domain.Invalid("product_id", "es requerido")
	}
	if in.Quantity < 1 {
		return domain.Invalid("quantity", "debe ser al menos 1")
	}
	if !in.UnitPrice.GreaterThan(decimal.Zero) {
		return domain.Invalid("unit_price", "debe ser mayor que cero")
	}
	return nil
}

func validateUsageLine(in dto.UsageLineRequest) error {
	if in.ProductID == "" {
		return domain.Invalid("product_id", "es requerido")
	}
	if in.Quantity < 1 {
		return domain.Invalid("quantity", "debe ser al menos 1")
	}
	if in.UnitPrice != nil && !in.UnitPrice.GreaterThan(decimal.Zero) {
		return domain.Invalid("unit_price", "debe ser mayor que cero")
	}
	return nil
}

func validateLineUpdate(in dto.UpdateLineRequest) error {
	if in.Quantity == nil && in.UnitPrice == nil {
		return domain.Invalid("body", "no hay campos para actualizar")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return domain.Invalid("quantity", "debe ser al menos 1")
	}
	if in.UnitPrice != nil && !in.UnitPrice.GreaterThan(decimal.Zero) {
		return domain.Invalid("unit_price", "debe ser mayor que cero")
	}
	return nil
}

// lockProducts bloquea las filas de los productos en orden de ID, igual que las transiciones
// de estado, para que dos transacciones con los mismos productos no se bloqueen mutuamente.
// Los productos inexistentes se omiten; addLine responde ErrNotFound en su línea.
func lockProducts(ctx context.Context, repos repository.TxRepos, ids []string) error {
	unique := make(map[string]struct{}, len(ids))
	sorted := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)
	for _, id := range sorted {
		if _, err := repos.Products.GetForUpdate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func orderLineProducts(lines []dto.OrderLineRequest) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

func usageLineProducts(lines []dto.UsageLineRequest) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// orderLinesByProduct ordena por producto; aplicar líneas en este orden fija el orden de bloqueo de filas.
func orderLinesByProduct(lines []*entity.OrderLine) []*entity.OrderLine {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func usageLinesByProduct(lines []*entity.UsageLine) []*entity.UsageLine {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func toOrderLineResponse(l *entity.OrderLine) dto.OrderLineResponse {
	return dto.OrderLineResponse{
		ID:           l.ID,
		OrderID:      l.OrderID,
		ProductID:    l.ProductID,
		Quantity:     l.Quantity,
		UnitPrice:    l.UnitPrice,
		Value:        l.Value,
		StockApplied: l.StockApplied,
		CreatedAt:    l.CreatedAt,
	}
}

func toOrderResponse(o *entity.Order, lines []*entity.OrderLine) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:         o.ID,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		Notes:      o.Notes,
		OrderDate:  o.OrderDate,
		ReceivedAt: o.ReceivedAt,
		TotalValue: o.TotalValue,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toOrderLineResponse(l))
	}
	return resp
}

func toUsageLineResponse(l *entity.UsageLine) dto.UsageLineResponse {
	return dto.UsageLineResponse{
		ID:        l.ID,
		UsageID:   l.UsageID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Value:     l.Value,
		CreatedAt: l.CreatedAt,
	}
}

func toUsageResponse(u *entity.Usage, lines []*entity.UsageLine) dto.UsageResponse {
	resp := dto.UsageResponse{
		ID:         u.ID,
		UsageType:  u.UsageType,
		Notes:      u.Notes,
		Date:       u.Date,
		TotalValue: u.TotalValue,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, toUsageLineResponse(l))
	}
	return resp
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:        a.ID,
		ProductID: a.ProductID,
		Type:      a.Type,
		Message:   a.Message,
		IsRead:    a.IsRead,
		CreatedAt: a.CreatedAt,
		ReadAt:    a.ReadAt,
	}
}
