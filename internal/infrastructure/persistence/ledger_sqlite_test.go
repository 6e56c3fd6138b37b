package persistence

import (
	"context"
	"errors"
	"testing"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(SQLiteDSN(":memory:")), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type sqliteLedger struct {
	clientes *appledger.ClienteService
	recibos  *appledger.ReciboService
}

func newSQLiteLedger(t *testing.T) sqliteLedger {
	db := setupLedgerTestDB(t)
	clienteRepo := NewGormClienteRepository(db)
	reciboRepo := NewGormReciboRepository(db)
	scope := NewGormTransactionScope(db)
	return sqliteLedger{
		clientes: appledger.NewClienteService(clienteRepo, reciboRepo, scope, nil),
		recibos:  appledger.NewReciboService(clienteRepo, reciboRepo, scope, nil),
	}
}

func money(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestGormRepositories_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("insertion order and counts", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		clientes := NewGormClienteRepository(db)
		recibos := NewGormReciboRepository(db)

		for _, dni := range []string{"C3", "A1", "B2"} {
			c, err := ledger.NewCliente(dni, "Nombre", "Apellidos", ledger.TipoClienteSocio, nil)
			require.NoError(t, err)
			require.NoError(t, clientes.Create(ctx, c))
		}

		all, err := clientes.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"C3", "A1", "B2"}, []string{all[0].DNI, all[1].DNI, all[2].DNI})

		owner := &all[1]
		for _, n := range []string{"R9", "R1"} {
			r, err := ledger.NewRecibo(n, owner, decimal.NewFromInt(10), nil)
			require.NoError(t, err)
			require.NoError(t, recibos.Create(ctx, r))
		}

		list, err := recibos.FindByCliente(ctx, "A1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "R9", list[0].NumeroRecibo)

		counts, err := recibos.CountByClientes(ctx, []string{"A1", "B2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"A1": 2, "B2": 0}, counts)

		exists, err := clientes.ExistsByDNI(ctx, "C3")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate keys are conflicts", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		clientes := NewGormClienteRepository(db)

		c, err := ledger.NewCliente("12345678A", "Ana", "García", ledger.TipoClienteSocio, nil)
		require.NoError(t, err)
		require.NoError(t, clientes.Create(ctx, c))

		err = clientes.Create(ctx, c)
		assert.True(t, errors.Is(err, shared.ErrConflict), "got %v", err)
	})

	t.Run("quota round trip", func(t *testing.T) {
		db := setupLedgerTestDB(t)
		clientes := NewGormClienteRepository(db)

		c, err := ledger.NewCliente("12345678A", "Ana", "García", ledger.TipoClienteRegistrado, money("1500.50"))
		require.NoError(t, err)
		require.NoError(t, clientes.Create(ctx, c))

		got, err := clientes.FindByDNIForUpdate(ctx, "12345678A")
		require.NoError(t, err)
		require.NotNil(t, got.CuotaMaxima)
		assert.Equal(t, "1500.50", got.CuotaMaxima.StringFixed(2))

		require.NoError(t, got.Update("Ana", "García", ledger.TipoClienteSocio, nil))
		require.NoError(t, clientes.Save(ctx, got))

		got, err = clientes.FindByDNI(ctx, "12345678A")
		require.NoError(t, err)
		assert.Nil(t, got.CuotaMaxima)
		assert.Equal(t, ledger.TipoClienteSocio, got.TipoCliente)
	})
}

func TestLedgerServices_SQLite(t *testing.T) {
	ctx := context.Background()
	l := newSQLiteLedger(t)

	_, err := l.clientes.Create(ctx, appledger.CreateClienteRequest{
		DNI: "12345678A", Nombre: "Ana", Apellidos: "García",
		TipoCliente: "REGISTRADO", CuotaMaxima: money("1000"),
	})
	require.NoError(t, err)

	_, err = l.recibos.Create(ctx, appledger.CreateReciboRequest{
		NumeroRecibo: "R1", DNICliente: "12345678A", Importe: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	t.Run("amount equal to quota is accepted", func(t *testing.T) {
		_, err := l.recibos.Create(ctx, appledger.CreateReciboRequest{
			NumeroRecibo: "R2", DNICliente: "12345678A", Importe: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)
	})

	t.Run("amount over quota is rejected", func(t *testing.T) {
		_, err := l.recibos.Create(ctx, appledger.CreateReciboRequest{
			NumeroRecibo: "R3", DNICliente: "12345678A", Importe: decimal.RequireFromString("1000.01"),
		})
		assert.True(t, errors.Is(err, shared.ErrQuotaExceeded))
	})

	t.Run("duplicate receipt number", func(t *testing.T) {
		_, err := l.recibos.Create(ctx, appledger.CreateReciboRequest{
			NumeroRecibo: "R1", DNICliente: "12345678A", Importe: decimal.NewFromInt(1),
		})
		assert.True(t, errors.Is(err, shared.ErrConflict))
	})

	t.Run("joined listing", func(t *testing.T) {
		all, err := l.recibos.ListAll(ctx, appledger.ListQuery{OrdenarPor: "numero"})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "R1", all[0].NumeroRecibo)
		assert.Equal(t, "Ana García", all[0].NombreCliente)

		got, err := l.clientes.Get(ctx, "12345678A")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.TotalRecibos)
	})

	t.Run("delete cascades", func(t *testing.T) {
		res, err := l.clientes.Delete(ctx, "12345678A")
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.RecibosEliminados)

		_, err = l.recibos.ListByCliente(ctx, "12345678A", appledger.ListQuery{})
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		_, err = l.recibos.Get(ctx, "R1")
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
