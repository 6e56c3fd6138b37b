package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reciboColumns = []string{"numero_recibo", "dni_cliente", "importe", "fecha_emision", "created_at"}

func TestGormReciboRepository_FindByNumeroForUpdate(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	fecha := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(reciboColumns).AddRow("R1", "12345678A", "250.50", fecha, fecha)
	mock.ExpectQuery(`SELECT \* FROM "recibos" WHERE numero_recibo = \$1 ORDER BY .* LIMIT \$2 FOR UPDATE`).
		WithArgs("R1", 1).
		WillReturnRows(rows)

	r, err := NewGormReciboRepository(db).FindByNumeroForUpdate(context.Background(), "R1")

	require.NoError(t, err)
	assert.Equal(t, "12345678A", r.DNICliente)
	assert.Equal(t, "250.50", r.Importe.StringFixed(2))
	assert.Equal(t, fecha, r.FechaEmision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReciboRepository_FindByCliente(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	now := time.Now()
	rows := sqlmock.NewRows(reciboColumns).
		AddRow("R2", "12345678A", "10", now, now).
		AddRow("R1", "12345678A", "20", now, now.Add(time.Second))
	mock.ExpectQuery(`SELECT \* FROM "recibos" WHERE dni_cliente = \$1 ORDER BY created_at, numero_recibo`).
		WithArgs("12345678A").
		WillReturnRows(rows)

	recibos, err := NewGormReciboRepository(db).FindByCliente(context.Background(), "12345678A")

	require.NoError(t, err)
	require.Len(t, recibos, 2)
	assert.Equal(t, "R2", recibos[0].NumeroRecibo)
	assert.Equal(t, "R1", recibos[1].NumeroRecibo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReciboRepository_CountByClientes(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT dni_cliente, COUNT\(\*\) AS total FROM "recibos" WHERE dni_cliente IN \(\$1,\$2\) GROUP BY .?dni_cliente.?`).
		WithArgs("A1", "B2").
		WillReturnRows(sqlmock.NewRows([]string{"dni_cliente", "total"}).AddRow("A1", 3))

	counts, err := NewGormReciboRepository(db).CountByClientes(context.Background(), []string{"A1", "B2"})

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A1": 3, "B2": 0}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReciboRepository_Create(t *testing.T) {
	owner := &ledger.Cliente{DNI: "12345678A", TipoCliente: ledger.TipoClienteSocio}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "inserts row"},
		{name: "duplicate number", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: shared.ErrConflict},
		{name: "missing owner", dbErr: &pgconn.PgError{Code: "23503"}, wantErr: shared.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, mockDB := newMockGormDB(t)
			defer mockDB.Close()

			r, err := ledger.NewRecibo("R1", owner, decimal.NewFromInt(100), nil)
			require.NoError(t, err)

			exp := mock.ExpectExec(`INSERT INTO "recibos" \("numero_recibo","dni_cliente","importe","fecha_emision","created_at"\)`)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err = NewGormReciboRepository(db).Create(context.Background(), r)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormReciboRepository_DeleteAllForCliente(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectExec(`DELETE FROM "recibos" WHERE dni_cliente = \$1`).
		WithArgs("12345678A").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := NewGormReciboRepository(db).DeleteAllForCliente(context.Background(), "12345678A")

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
