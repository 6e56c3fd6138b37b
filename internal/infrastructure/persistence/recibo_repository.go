package persistence

import (
	"context"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReciboRepository implements ledger.ReciboRepository using GORM
type GormReciboRepository struct {
	db *gorm.DB
}

// NewGormReciboRepository creates a new GormReciboRepository
func NewGormReciboRepository(db *gorm.DB) *GormReciboRepository {
	return &GormReciboRepository{db: db}
}

// FindByNumero finds a receipt by its number
func (r *GormReciboRepository) FindByNumero(ctx context.Context, numero string) (*ledger.Recibo, error) {
	var model models.ReciboModel
	if err := r.db.WithContext(ctx).First(&model, "numero_recibo = ?", numero).Error; err != nil {
		return nil, translateError("find recibo", err)
	}
	return model.ToDomain(), nil
}

// FindByNumeroForUpdate finds a receipt with SELECT ... FOR UPDATE
func (r *GormReciboRepository) FindByNumeroForUpdate(ctx context.Context, numero string) (*ledger.Recibo, error) {
	var model models.ReciboModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "numero_recibo = ?", numero).Error
	if err != nil {
		return nil, translateError("lock recibo", err)
	}
	return model.ToDomain(), nil
}

// FindByCliente returns the receipts of a customer in insertion order
func (r *GormReciboRepository) FindByCliente(ctx context.Context, dni string) ([]ledger.Recibo, error) {
	var rows []models.ReciboModel
	if err := r.db.WithContext(ctx).
		Where("dni_cliente = ?", dni).
		Order(reciboInsertionOrder).
		Find(&rows).Error; err != nil {
		return nil, translateError("list recibos of cliente", err)
	}
	return toRecibos(rows), nil
}

// FindAll returns every receipt in insertion order
func (r *GormReciboRepository) FindAll(ctx context.Context) ([]ledger.Recibo, error) {
	var rows []models.ReciboModel
	if err := r.db.WithContext(ctx).Order(reciboInsertionOrder).Find(&rows).Error; err != nil {
		return nil, translateError("list recibos", err)
	}
	return toRecibos(rows), nil
}

// CountByCliente counts the receipts of a customer
func (r *GormReciboRepository) CountByCliente(ctx context.Context, dni string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ReciboModel{}).
		Where("dni_cliente = ?", dni).Count(&count).Error; err != nil {
		return 0, translateError("count recibos", err)
	}
	return count, nil
}

// CountByClientes counts receipts per customer in a single grouped query
func (r *GormReciboRepository) CountByClientes(ctx context.Context, dnis []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(dnis))
	if len(dnis) == 0 {
		return counts, nil
	}
	for _, dni := range dnis {
		counts[dni] = 0
	}

	var rows []struct {
		DNICliente string
		Total      int64
	}
	if err := r.db.WithContext(ctx).Model(&models.ReciboModel{}).
		Select("dni_cliente, COUNT(*) AS total").
		Where("dni_cliente IN ?", dnis).
		Group("dni_cliente").
		Scan(&rows).Error; err != nil {
		return nil, translateError("count recibos per cliente", err)
	}
	for _, row := range rows {
		counts[row.DNICliente] = row.Total
	}
	return counts, nil
}

// Create inserts a new receipt; a taken number yields shared.ErrConflict and
// a missing owner yields shared.ErrNotFound
func (r *GormReciboRepository) Create(ctx context.Context, recibo *ledger.Recibo) error {
	model := models.ReciboModelFromDomain(recibo)
	return translateError("create recibo", r.db.WithContext(ctx).Create(model).Error)
}

// Save updates the amount and emission date of an existing receipt
func (r *GormReciboRepository) Save(ctx context.Context, recibo *ledger.Recibo) error {
	result := r.db.WithContext(ctx).Model(&models.ReciboModel{}).
		Where("numero_recibo = ?", recibo.NumeroRecibo).
		Updates(map[string]any{
			"importe":       recibo.Importe,
			"fecha_emision": recibo.FechaEmision,
		})
	if result.Error != nil {
		return translateError("update recibo", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a receipt
func (r *GormReciboRepository) Delete(ctx context.Context, numero string) error {
	result := r.db.WithContext(ctx).Where("numero_recibo = ?", numero).Delete(&models.ReciboModel{})
	if result.Error != nil {
		return translateError("delete recibo", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForCliente removes every receipt of a customer
func (r *GormReciboRepository) DeleteAllForCliente(ctx context.Context, dni string) (int64, error) {
	result := r.db.WithContext(ctx).Where("dni_cliente = ?", dni).Delete(&models.ReciboModel{})
	if result.Error != nil {
		return 0, translateError("delete recibos of cliente", result.Error)
	}
	return result.RowsAffected, nil
}

func toRecibos(rows []models.ReciboModel) []ledger.Recibo {
	recibos := make([]ledger.Recibo, len(rows))
	for i := range rows {
		recibos[i] = *rows[i].ToDomain()
	}
	return recibos
}

// Ensure GormReciboRepository implements ledger.ReciboRepository
var _ ledger.ReciboRepository = (*GormReciboRepository)(nil)
