package ledger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cuota(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseTipoCliente(t *testing.T) {
	tipo, err := ParseTipoCliente("REGISTRADO")
	require.NoError(t, err)
	assert.Equal(t, TipoClienteRegistrado, tipo)

	tipo, err = ParseTipoCliente("SOCIO")
	require.NoError(t, err)
	assert.Equal(t, TipoClienteSocio, tipo)

	for _, raw := range []string{"", "socio", "VIP", "0"} {
		_, err := ParseTipoCliente(raw)
		assert.True(t, errors.Is(err, shared.ErrInvalidArgument), raw)
		assert.Equal(t, "Tipo de cliente inválido. Debe ser REGISTRADO o SOCIO", err.Error())
	}
}

func TestNewCliente(t *testing.T) {
	t.Run("creates registrado with quota", func(t *testing.T) {
		before := time.Now().UTC()
		c, err := NewCliente("12345678A", "Ana", "García López", TipoClienteRegistrado, cuota("100.00"))

		require.NoError(t, err)
		assert.Equal(t, "12345678A", c.DNI)
		assert.Equal(t, TipoClienteRegistrado, c.TipoCliente)
		require.NotNil(t, c.CuotaMaxima)
		assert.True(t, c.CuotaMaxima.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, time.UTC, c.FechaAlta.Location())
		assert.False(t, c.FechaAlta.Before(before))
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClienteCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("creates socio without quota", func(t *testing.T) {
		c, err := NewCliente("87654321B", "Luis", "Pérez", TipoClienteSocio, nil)

		require.NoError(t, err)
		assert.Nil(t, c.CuotaMaxima)
		assert.False(t, c.IsRegistrado())
	})

	t.Run("rounds quota to two decimals", func(t *testing.T) {
		c, err := NewCliente("1", "A", "B", TipoClienteRegistrado, cuota("10.005"))

		require.NoError(t, err)
		assert.Equal(t, "10.01", c.CuotaMaxima.StringFixed(2))
	})

	tests := []struct {
		name    string
		dni     string
		nombre  string
		apell   string
		tipo    TipoCliente
		cuota   *decimal.Decimal
		message string
	}{
		{"registrado without quota", "1", "A", "B", TipoClienteRegistrado, nil, "Los clientes REGISTRADO deben tener una cuota máxima"},
		{"registrado with zero quota", "1", "A", "B", TipoClienteRegistrado, cuota("0"), "La cuota máxima debe ser mayor que 0"},
		{"registrado with negative quota", "1", "A", "B", TipoClienteRegistrado, cuota("-5"), "La cuota máxima debe ser mayor que 0"},
		{"socio with quota", "1", "A", "B", TipoClienteSocio, cuota("50"), "Los clientes SOCIO no deben tener cuota máxima"},
		{"unknown tipo", "1", "A", "B", TipoCliente("VIP"), nil, "Tipo de cliente inválido. Debe ser REGISTRADO o SOCIO"},
		{"empty dni", "", "A", "B", TipoClienteSocio, nil, "El DNI es requerido"},
		{"dni too long", "1234567890", "A", "B", TipoClienteSocio, nil, "El DNI debe tener máximo 9 caracteres"},
		{"empty nombre", "1", " ", "B", TipoClienteSocio, nil, "El nombre es requerido"},
		{"nombre too long", "1", strings.Repeat("n", 101), "B", TipoClienteSocio, nil, "El nombre debe tener máximo 100 caracteres"},
		{"empty apellidos", "1", "A", "", TipoClienteSocio, nil, "Los apellidos son requeridos"},
		{"quota over column precision", "1", "A", "B", TipoClienteRegistrado, cuota("100000000"), "La cuota máxima no puede superar 99999999.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCliente(tt.dni, tt.nombre, tt.apell, tt.tipo, tt.cuota)

			assert.Nil(t, c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	t.Run("dni length counts characters not bytes", func(t *testing.T) {
		_, err := NewCliente("ÑÑÑÑÑÑÑÑÑ", "A", "B", TipoClienteSocio, nil)
		assert.NoError(t, err)
	})
}

func TestCliente_Update(t *testing.T) {
	t.Run("switches registrado to socio", func(t *testing.T) {
		c, err := NewCliente("1", "A", "B", TipoClienteRegistrado, cuota("100"))
		require.NoError(t, err)
		fechaAlta := c.FechaAlta
		c.ClearDomainEvents()

		require.NoError(t, c.Update("Ana", "Ruiz", TipoClienteSocio, nil))

		assert.Equal(t, "1", c.DNI)
		assert.Equal(t, fechaAlta, c.FechaAlta)
		assert.Equal(t, "Ana Ruiz", c.NombreCompleto())
		assert.Nil(t, c.CuotaMaxima)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeClienteUpdated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid pairing and leaves state untouched", func(t *testing.T) {
		c, err := NewCliente("1", "A", "B", TipoClienteSocio, nil)
		require.NoError(t, err)

		err = c.Update("X", "Y", TipoClienteRegistrado, nil)

		assert.True(t, errors.Is(err, shared.ErrInvalidArgument))
		assert.Equal(t, "A", c.Nombre)
		assert.Equal(t, TipoClienteSocio, c.TipoCliente)
	})
}

func TestCliente_CheckImporte(t *testing.T) {
	registrado, err := NewCliente("12345678A", "A", "B", TipoClienteRegistrado, cuota("100.00"))
	require.NoError(t, err)
	socio, err := NewCliente("2", "A", "B", TipoClienteSocio, nil)
	require.NoError(t, err)

	assert.NoError(t, registrado.CheckImporte(decimal.RequireFromString("99.99")))
	assert.NoError(t, registrado.CheckImporte(decimal.RequireFromString("100.00")), "cap is inclusive")

	err = registrado.CheckImporte(decimal.RequireFromString("150.00"))
	assert.True(t, errors.Is(err, shared.ErrQuotaExceeded))
	assert.Equal(t, "El importe 150.00 supera la cuota máxima permitida de 100.00", err.Error())

	err = registrado.CheckImporte(decimal.RequireFromString("100.004"))
	assert.True(t, errors.Is(err, shared.ErrQuotaExceeded), "compared before rounding")
	assert.Equal(t, "El importe 100.004 supera la cuota máxima permitida de 100.00", err.Error())

	assert.NoError(t, socio.CheckImporte(decimal.NewFromInt(1_000_000)))
}
