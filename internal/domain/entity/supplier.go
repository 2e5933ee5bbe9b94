package entity

import "time"

// Supplier representa un proveedor. No se puede eliminar mientras tenga órdenes.
type Supplier struct {
	ID        string
	Name      string
	Telephone string
	Email     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
