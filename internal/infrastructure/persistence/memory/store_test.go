package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(s *Store) (*appledger.ClienteService, *appledger.ReciboService) {
	return appledger.NewClienteService(s.Clientes(), s.Recibos(), s, nil),
		appledger.NewReciboService(s.Clientes(), s.Recibos(), s, nil)
}

func registrado(t *testing.T, clientes *appledger.ClienteService, dni, cuota string) {
	t.Helper()
	c := decimal.RequireFromString(cuota)
	_, err := clientes.Create(context.Background(), appledger.CreateClienteRequest{
		DNI: dni, Nombre: "Ana", Apellidos: "García", TipoCliente: "REGISTRADO", CuotaMaxima: &c,
	})
	require.NoError(t, err)
}

func TestStore_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("failed callback leaves tables untouched", func(t *testing.T) {
		s := NewStore()
		c, err := ledger.NewCliente("A1", "Ana", "García", ledger.TipoClienteSocio, nil)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = s.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			require.NoError(t, repos.ClienteRepo().Create(ctx, c))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := s.Clientes().ExistsByDNI(ctx, "A1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("successful callback commits", func(t *testing.T) {
		s := NewStore()
		c, err := ledger.NewCliente("A1", "Ana", "García", ledger.TipoClienteSocio, nil)
		require.NoError(t, err)

		require.NoError(t, s.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			return repos.ClienteRepo().Create(ctx, c)
		}))

		got, err := s.Clientes().FindByDNI(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Nombre)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := NewStore().Execute(cctx, func(appledger.TransactionalRepositories) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	clientes, recibos := s.Clientes(), s.Recibos()

	for _, dni := range []string{"C3", "A1", "B2"} {
		c, err := ledger.NewCliente(dni, "N", "A", ledger.TipoClienteSocio, nil)
		require.NoError(t, err)
		require.NoError(t, clientes.Create(ctx, c))
	}

	t.Run("insertion order", func(t *testing.T) {
		all, err := clientes.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"C3", "A1", "B2"}, []string{all[0].DNI, all[1].DNI, all[2].DNI})
	})

	t.Run("returned values are copies", func(t *testing.T) {
		got, err := clientes.FindByDNI(ctx, "A1")
		require.NoError(t, err)
		got.Nombre = "changed"

		again, err := clientes.FindByDNI(ctx, "A1")
		require.NoError(t, err)
		assert.Equal(t, "N", again.Nombre)
	})

	t.Run("receipt needs an owner", func(t *testing.T) {
		err := recibos.Create(ctx, &ledger.Recibo{NumeroRecibo: "R0", DNICliente: "ZZ", Importe: decimal.NewFromInt(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("counts and cascade", func(t *testing.T) {
		owner, err := clientes.FindByDNI(ctx, "B2")
		require.NoError(t, err)
		for _, n := range []string{"R2", "R1"} {
			r, err := ledger.NewRecibo(n, owner, decimal.NewFromInt(5), nil)
			require.NoError(t, err)
			require.NoError(t, recibos.Create(ctx, r))
		}

		counts, err := recibos.CountByClientes(ctx, []string{"A1", "B2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"A1": 0, "B2": 2}, counts)

		list, err := recibos.FindByCliente(ctx, "B2")
		require.NoError(t, err)
		assert.Equal(t, "R2", list[0].NumeroRecibo)

		require.NoError(t, clientes.Delete(ctx, "B2"))
		_, err = recibos.FindByNumero(ctx, "R1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, clientes.Delete(ctx, "B2"), shared.ErrNotFound)
	})
}

func TestLedger_QuotaExample(t *testing.T) {
	ctx := context.Background()
	clientes, recibos := newServices(NewStore())
	registrado(t, clientes, "12345678A", "100.00")

	_, err := recibos.Create(ctx, appledger.CreateReciboRequest{
		NumeroRecibo: "R1", DNICliente: "12345678A", Importe: decimal.RequireFromString("150.00"),
	})
	assert.ErrorIs(t, err, shared.ErrQuotaExceeded)

	created, err := recibos.Create(ctx, appledger.CreateReciboRequest{
		NumeroRecibo: "R1", DNICliente: "12345678A", Importe: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", created.Importe.StringFixed(2))

	deleted, err := clientes.Delete(ctx, "12345678A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.RecibosEliminados)

	_, err = recibos.Get(ctx, "R1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = recibos.ListByCliente(ctx, "12345678A", appledger.ListQuery{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLedger_Concurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate creates yield exactly one conflict", func(t *testing.T) {
		clientes, _ := newServices(NewStore())

		const workers = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			ok        int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := clientes.Create(ctx, appledger.CreateClienteRequest{
					DNI: "12345678A", Nombre: "Ana", Apellidos: "García", TipoCliente: "SOCIO",
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, shared.ErrConflict):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, conflicts)
	})

	t.Run("receipts racing a delete never outlive their owner", func(t *testing.T) {
		s := NewStore()
		clientes, recibos := newServices(s)
		registrado(t, clientes, "12345678A", "1000")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := recibos.Create(ctx, appledger.CreateReciboRequest{
					NumeroRecibo: fmt.Sprintf("R%02d", i), DNICliente: "12345678A", Importe: decimal.NewFromInt(10),
				})
				if err != nil {
					assert.ErrorIs(t, err, shared.ErrNotFound)
				}
			}(i)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := clientes.Delete(ctx, "12345678A")
			assert.NoError(t, err)
		}()
		wg.Wait()

		all, err := s.Recibos().FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
