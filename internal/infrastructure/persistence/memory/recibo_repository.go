package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
)

// ReciboRepository implements ledger.ReciboRepository on a Store
type ReciboRepository struct {
	store *Store
	tx    *tables
}

func copyRecibo(r *ledger.Recibo) ledger.Recibo {
	return ledger.Recibo{
		NumeroRecibo: r.NumeroRecibo,
		DNICliente:   r.DNICliente,
		Importe:      r.Importe,
		FechaEmision: r.FechaEmision,
	}
}

func (r *ReciboRepository) FindByNumero(ctx context.Context, numero string) (*ledger.Recibo, error) {
	var (
		out   ledger.Recibo
		found bool
	)
	r.store.view(r.tx, func(t *tables) {
		var row reciboRow
		if row, found = t.recibos[numero]; found {
			out = copyRecibo(&row.recibo)
		}
	})
	if !found {
		return nil, shared.ErrNotFound
	}
	return &out, nil
}

func (r *ReciboRepository) FindByNumeroForUpdate(ctx context.Context, numero string) (*ledger.Recibo, error) {
	return r.FindByNumero(ctx, numero)
}

// collect returns copies of the matching receipts in insertion order
func (r *ReciboRepository) collect(match func(*ledger.Recibo) bool) []ledger.Recibo {
	var rows []reciboRow
	r.store.view(r.tx, func(t *tables) {
		for _, row := range t.recibos {
			if match(&row.recibo) {
				rows = append(rows, row)
			}
		}
	})
	slices.SortFunc(rows, func(a, b reciboRow) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]ledger.Recibo, len(rows))
	for i := range rows {
		out[i] = copyRecibo(&rows[i].recibo)
	}
	return out
}

func (r *ReciboRepository) FindByCliente(ctx context.Context, dni string) ([]ledger.Recibo, error) {
	return r.collect(func(rec *ledger.Recibo) bool { return rec.DNICliente == dni }), nil
}

func (r *ReciboRepository) FindAll(ctx context.Context) ([]ledger.Recibo, error) {
	return r.collect(func(*ledger.Recibo) bool { return true }), nil
}

func (r *ReciboRepository) CountByCliente(ctx context.Context, dni string) (int64, error) {
	counts, err := r.CountByClientes(ctx, []string{dni})
	return counts[dni], err
}

func (r *ReciboRepository) CountByClientes(ctx context.Context, dnis []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(dnis))
	for _, dni := range dnis {
		counts[dni] = 0
	}
	r.store.view(r.tx, func(t *tables) {
		for _, row := range t.recibos {
			if _, wanted := counts[row.recibo.DNICliente]; wanted {
				counts[row.recibo.DNICliente]++
			}
		}
	})
	return counts, nil
}

// Create inserts a receipt; the owner must exist
func (r *ReciboRepository) Create(ctx context.Context, recibo *ledger.Recibo) error {
	return r.store.update(r.tx, func(t *tables) error {
		if _, exists := t.recibos[recibo.NumeroRecibo]; exists {
			return shared.ErrConflict
		}
		if _, ok := t.clientes[recibo.DNICliente]; !ok {
			return shared.ErrNotFound
		}
		t.recibos[recibo.NumeroRecibo] = reciboRow{recibo: copyRecibo(recibo), seq: t.nextSeq()}
		return nil
	})
}

func (r *ReciboRepository) Save(ctx context.Context, recibo *ledger.Recibo) error {
	return r.store.update(r.tx, func(t *tables) error {
		row, exists := t.recibos[recibo.NumeroRecibo]
		if !exists {
			return shared.ErrNotFound
		}
		row.recibo.Importe = recibo.Importe
		row.recibo.FechaEmision = recibo.FechaEmision
		t.recibos[recibo.NumeroRecibo] = row
		return nil
	})
}

func (r *ReciboRepository) Delete(ctx context.Context, numero string) error {
	return r.store.update(r.tx, func(t *tables) error {
		if _, exists := t.recibos[numero]; !exists {
			return shared.ErrNotFound
		}
		delete(t.recibos, numero)
		return nil
	})
}

func (r *ReciboRepository) DeleteAllForCliente(ctx context.Context, dni string) (int64, error) {
	var n int64
	err := r.store.update(r.tx, func(t *tables) error {
		for numero, row := range t.recibos {
			if row.recibo.DNICliente == dni {
				delete(t.recibos, numero)
				n++
			}
		}
		return nil
	})
	return n, err
}

var _ ledger.ReciboRepository = (*ReciboRepository)(nil)
