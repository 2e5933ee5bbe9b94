package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock: cantidad, línea y total se confirman juntos o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// Notice aviso externo (email, evento) generado al abrir una alerta.
type Notice struct {
	AlertID   string
	AlertType string
	ProductID string
	SKU       string
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Notifier entrega avisos en segundo plano. Notify nunca bloquea ni devuelve error:
// los fallos de entrega se registran en el log y se descartan.
type Notifier interface {
	Notify(notice Notice)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// CreditPolicy define cuándo una línea de orden acredita stock.
type CreditPolicy string

const (
	// CreditImmediate acredita al crear la línea y revierte al eliminarla.
	CreditImmediate CreditPolicy = "immediate"
	// CreditOnReceipt acredita todas las líneas cuando la orden pasa a RECEIVED.
	CreditOnReceipt CreditPolicy = "on_receipt"
)

// ParseCreditPolicy valida el valor de configuración STOCK_CREDIT_POLICY.
func ParseCreditPolicy(s string) (CreditPolicy, error) {
	switch CreditPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CreditImmediate:
		return CreditImmediate, nil
	case CreditOnReceipt:
		return CreditOnReceipt, nil
	}
	return "", fmt.Errorf("política de acreditación desconocida: %q", s)
}

// OrderLineForPDF línea de orden con los datos de producto que necesita el PDF.
type OrderLineForPDF struct {
	Line        *entity.OrderLine
	SKU         string
	ProductName string
}

// OrderPDFGenerator genera la representación PDF de una orden de compra.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, supplier *entity.Supplier, lines []OrderLineForPDF) ([]byte, error)
}
