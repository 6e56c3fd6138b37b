package ledger

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Ordering keys accepted by the list operations
const (
	OrderByDNI       = "dni"
	OrderByFechaAlta = "fechaalta"
	OrderByFecha     = "fecha"
	OrderByNumero    = "numero"
	OrderByCliente   = "cliente"
)

// CompareFunc orders two items: negative when a sorts first
type CompareFunc[T any] func(a, b T) int

// SortStable returns a sorted copy of items. Ties keep their input order in
// both directions; descending only inverts the comparison.
func SortStable[T any](items []T, compare CompareFunc[T], descending bool) []T {
	out := slices.Clone(items)
	if compare == nil {
		return out
	}
	if descending {
		slices.SortStableFunc(out, func(a, b T) int { return compare(b, a) })
		return out
	}
	slices.SortStableFunc(out, compare)
	return out
}

// NormalizeOrderKey lowercases a key and drops separators, so "fechaAlta",
// "fecha_alta" and "FECHA-ALTA" resolve to the same key.
func NormalizeOrderKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer("_", "", "-", "").Replace(key)
}

// ClienteOrder resolves the customer ordering. Unknown keys order by DNI.
func ClienteOrder(orderBy string) CompareFunc[Cliente] {
	switch NormalizeOrderKey(orderBy) {
	case OrderByFechaAlta:
		return func(a, b Cliente) int { return a.FechaAlta.Compare(b.FechaAlta) }
	default:
		return func(a, b Cliente) int { return strings.Compare(a.DNI, b.DNI) }
	}
}

// SortClientes orders customers by dni or fechaAlta. An unknown key falls
// back to dni and still honours descending.
func SortClientes(clientes []Cliente, orderBy string, descending bool) []Cliente {
	return SortStable(clientes, ClienteOrder(orderBy), descending)
}

// ReciboOrder resolves the ordering inside one customer's receipts.
// Unknown keys order by emission date.
func ReciboOrder(orderBy string) CompareFunc[ReciboDetalle] {
	switch NormalizeOrderKey(orderBy) {
	case OrderByNumero:
		return compareNumero
	default:
		return compareFecha
	}
}

// SortRecibosCliente orders the receipts of a single customer by fecha or numero
func SortRecibosCliente(recibos []ReciboDetalle, orderBy string, descending bool) []ReciboDetalle {
	return SortStable(recibos, ReciboOrder(orderBy), descending)
}

// SortRecibos orders all receipts by cliente (apellidos, then nombre), fecha
// or numero. An unknown key orders by fecha ascending regardless of direction.
func SortRecibos(recibos []ReciboDetalle, orderBy string, descending bool) []ReciboDetalle {
	switch NormalizeOrderKey(orderBy) {
	case OrderByCliente:
		return SortStable(recibos, newTitularCompare(), descending)
	case OrderByNumero:
		return SortStable(recibos, compareNumero, descending)
	case OrderByFecha:
		return SortStable(recibos, compareFecha, descending)
	default:
		return SortStable(recibos, compareFecha, false)
	}
}

func compareFecha(a, b ReciboDetalle) int {
	return a.FechaEmision.Compare(b.FechaEmision)
}

func compareNumero(a, b ReciboDetalle) int {
	return strings.Compare(a.NumeroRecibo, b.NumeroRecibo)
}

// newTitularCompare compares owners by apellidos then nombre using Spanish
// collation. A collator is not safe for concurrent use, so each sort gets its own.
func newTitularCompare() CompareFunc[ReciboDetalle] {
	col := collate.New(language.Spanish)
	return func(a, b ReciboDetalle) int {
		if c := col.CompareString(a.Apellidos, b.Apellidos); c != 0 {
			return c
		}
		return col.CompareString(a.Nombre, b.Nombre)
	}
}
