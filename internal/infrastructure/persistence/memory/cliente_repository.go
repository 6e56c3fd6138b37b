package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
)

// ClienteRepository implements ledger.ClienteRepository on a Store
type ClienteRepository struct {
	store *Store
	tx    *tables
}

// copyCliente detaches a stored customer from caller mutations and drops pending events
func copyCliente(c *ledger.Cliente) ledger.Cliente {
	out := ledger.Cliente{
		DNI:         c.DNI,
		Nombre:      c.Nombre,
		Apellidos:   c.Apellidos,
		TipoCliente: c.TipoCliente,
		FechaAlta:   c.FechaAlta,
	}
	if c.CuotaMaxima != nil {
		cuota := *c.CuotaMaxima
		out.CuotaMaxima = &cuota
	}
	return out
}

func (r *ClienteRepository) FindByDNI(ctx context.Context, dni string) (*ledger.Cliente, error) {
	var (
		out   ledger.Cliente
		found bool
	)
	r.store.view(r.tx, func(t *tables) {
		var row clienteRow
		if row, found = t.clientes[dni]; found {
			out = copyCliente(&row.cliente)
		}
	})
	if !found {
		return nil, shared.ErrNotFound
	}
	return &out, nil
}

// FindByDNIForUpdate is FindByDNI: transactions already hold the store lock
func (r *ClienteRepository) FindByDNIForUpdate(ctx context.Context, dni string) (*ledger.Cliente, error) {
	return r.FindByDNI(ctx, dni)
}

func (r *ClienteRepository) FindByDNIs(ctx context.Context, dnis []string) (map[string]*ledger.Cliente, error) {
	result := make(map[string]*ledger.Cliente, len(dnis))
	r.store.view(r.tx, func(t *tables) {
		for _, dni := range dnis {
			if row, ok := t.clientes[dni]; ok {
				c := copyCliente(&row.cliente)
				result[dni] = &c
			}
		}
	})
	return result, nil
}

func (r *ClienteRepository) FindAll(ctx context.Context) ([]ledger.Cliente, error) {
	var rows []clienteRow
	r.store.view(r.tx, func(t *tables) {
		rows = make([]clienteRow, 0, len(t.clientes))
		for _, row := range t.clientes {
			rows = append(rows, row)
		}
	})
	slices.SortFunc(rows, func(a, b clienteRow) int { return cmp.Compare(a.seq, b.seq) })

	clientes := make([]ledger.Cliente, len(rows))
	for i := range rows {
		clientes[i] = copyCliente(&rows[i].cliente)
	}
	return clientes, nil
}

func (r *ClienteRepository) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	var ok bool
	r.store.view(r.tx, func(t *tables) {
		_, ok = t.clientes[dni]
	})
	return ok, nil
}

func (r *ClienteRepository) Create(ctx context.Context, cliente *ledger.Cliente) error {
	return r.store.update(r.tx, func(t *tables) error {
		if _, exists := t.clientes[cliente.DNI]; exists {
			return shared.ErrConflict
		}
		t.clientes[cliente.DNI] = clienteRow{cliente: copyCliente(cliente), seq: t.nextSeq()}
		return nil
	})
}

func (r *ClienteRepository) Save(ctx context.Context, cliente *ledger.Cliente) error {
	return r.store.update(r.tx, func(t *tables) error {
		row, exists := t.clientes[cliente.DNI]
		if !exists {
			return shared.ErrNotFound
		}
		updated := copyCliente(cliente)
		updated.FechaAlta = row.cliente.FechaAlta
		row.cliente = updated
		t.clientes[cliente.DNI] = row
		return nil
	})
}

// Delete removes a customer together with any receipts still pointing at it
func (r *ClienteRepository) Delete(ctx context.Context, dni string) error {
	return r.store.update(r.tx, func(t *tables) error {
		if _, exists := t.clientes[dni]; !exists {
			return shared.ErrNotFound
		}
		delete(t.clientes, dni)
		for numero, row := range t.recibos {
			if row.recibo.DNICliente == dni {
				delete(t.recibos, numero)
			}
		}
		return nil
	})
}

var _ ledger.ClienteRepository = (*ClienteRepository)(nil)
