package ledger

import "context"

// ClienteReader is the read dependency receipts have on customers.
// Implementations return shared.ErrNotFound when the DNI is unknown.
type ClienteReader interface {
	// FindByDNI finds a customer by DNI
	FindByDNI(ctx context.Context, dni string) (*Cliente, error)

	// FindByDNIs finds the customers with the given DNIs, keyed by DNI.
	// Unknown DNIs are absent from the result.
	FindByDNIs(ctx context.Context, dnis []string) (map[string]*Cliente, error)
}

// ClienteRepository defines the interface for customer persistence
type ClienteRepository interface {
	ClienteReader

	// FindByDNIForUpdate finds a customer and locks it until the enclosing
	// transaction ends. Receipt writes and customer deletes on the same DNI
	// serialize on this lock.
	FindByDNIForUpdate(ctx context.Context, dni string) (*Cliente, error)

	// FindAll returns every customer in insertion order
	FindAll(ctx context.Context) ([]Cliente, error)

	// ExistsByDNI checks if a customer exists
	ExistsByDNI(ctx context.Context, dni string) (bool, error)

	// Create inserts a new customer. Returns shared.ErrConflict if the DNI is taken.
	Create(ctx context.Context, cliente *Cliente) error

	// Save updates an existing customer
	Save(ctx context.Context, cliente *Cliente) error

	// Delete removes a customer. Returns shared.ErrNotFound if absent.
	Delete(ctx context.Context, dni string) error
}

// ReciboRepository defines the interface for receipt persistence
type ReciboRepository interface {
	// FindByNumero finds a receipt by its number
	FindByNumero(ctx context.Context, numero string) (*Recibo, error)

	// FindByNumeroForUpdate finds a receipt and locks it until the enclosing transaction ends
	FindByNumeroForUpdate(ctx context.Context, numero string) (*Recibo, error)

	// FindByCliente returns the receipts of a customer in insertion order
	FindByCliente(ctx context.Context, dni string) ([]Recibo, error)

	// FindAll returns every receipt in insertion order
	FindAll(ctx context.Context) ([]Recibo, error)

	// CountByCliente counts the receipts of a customer
	CountByCliente(ctx context.Context, dni string) (int64, error)

	// CountByClientes counts receipts per customer. DNIs without receipts map to 0.
	CountByClientes(ctx context.Context, dnis []string) (map[string]int64, error)

	// Create inserts a new receipt. Returns shared.ErrConflict if the number is taken.
	Create(ctx context.Context, recibo *Recibo) error

	// Save updates an existing receipt
	Save(ctx context.Context, recibo *Recibo) error

	// Delete removes a receipt. Returns shared.ErrNotFound if absent.
	Delete(ctx context.Context, numero string) error

	// DeleteAllForCliente removes every receipt of a customer and returns how many were removed
	DeleteAllForCliente(ctx context.Context, dni string) (int64, error)
}
