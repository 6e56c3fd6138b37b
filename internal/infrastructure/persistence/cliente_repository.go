package persistence

import (
	"context"

	"github.com/MrJorgx/PracticasExt/internal/domain/ledger"
	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Insertion order; the primary key breaks equal timestamps.
const (
	clienteInsertionOrder = "created_at, dni"
	reciboInsertionOrder  = "created_at, numero_recibo"
)

// GormClienteRepository implements ledger.ClienteRepository using GORM
type GormClienteRepository struct {
	db *gorm.DB
}

// NewGormClienteRepository creates a new GormClienteRepository
func NewGormClienteRepository(db *gorm.DB) *GormClienteRepository {
	return &GormClienteRepository{db: db}
}

// FindByDNI finds a customer by DNI
func (r *GormClienteRepository) FindByDNI(ctx context.Context, dni string) (*ledger.Cliente, error) {
	var model models.ClienteModel
	if err := r.db.WithContext(ctx).First(&model, "dni = ?", dni).Error; err != nil {
		return nil, translateError("find cliente", err)
	}
	return model.ToDomain(), nil
}

// FindByDNIForUpdate finds a customer with SELECT ... FOR UPDATE.
// Must be called on a transactional handle to hold the lock.
func (r *GormClienteRepository) FindByDNIForUpdate(ctx context.Context, dni string) (*ledger.Cliente, error) {
	var model models.ClienteModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "dni = ?", dni).Error
	if err != nil {
		return nil, translateError("lock cliente", err)
	}
	return model.ToDomain(), nil
}

// FindByDNIs finds the customers with the given DNIs
func (r *GormClienteRepository) FindByDNIs(ctx context.Context, dnis []string) (map[string]*ledger.Cliente, error) {
	result := make(map[string]*ledger.Cliente, len(dnis))
	if len(dnis) == 0 {
		return result, nil
	}

	var rows []models.ClienteModel
	if err := r.db.WithContext(ctx).Where("dni IN ?", dnis).Find(&rows).Error; err != nil {
		return nil, translateError("find clientes", err)
	}
	for i := range rows {
		result[rows[i].DNI] = rows[i].ToDomain()
	}
	return result, nil
}

// FindAll returns every customer in insertion order
func (r *GormClienteRepository) FindAll(ctx context.Context) ([]ledger.Cliente, error) {
	var rows []models.ClienteModel
	if err := r.db.WithContext(ctx).Order(clienteInsertionOrder).Find(&rows).Error; err != nil {
		return nil, translateError("list clientes", err)
	}
	clientes := make([]ledger.Cliente, len(rows))
	for i := range rows {
		clientes[i] = *rows[i].ToDomain()
	}
	return clientes, nil
}

// ExistsByDNI checks if a customer exists
func (r *GormClienteRepository) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClienteModel{}).
		Where("dni = ?", dni).Count(&count).Error; err != nil {
		return false, translateError("count cliente", err)
	}
	return count > 0, nil
}

// Create inserts a new customer; a taken DNI yields shared.ErrConflict
func (r *GormClienteRepository) Create(ctx context.Context, cliente *ledger.Cliente) error {
	model := models.ClienteModelFromDomain(cliente)
	return translateError("create cliente", r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error)
}

// Save updates the mutable columns of an existing customer
func (r *GormClienteRepository) Save(ctx context.Context, cliente *ledger.Cliente) error {
	model := models.ClienteModelFromDomain(cliente)
	result := r.db.WithContext(ctx).Model(&models.ClienteModel{}).
		Where("dni = ?", cliente.DNI).
		Select("nombre", "apellidos", "tipo_cliente", "cuota_maxima").
		Updates(model)
	if result.Error != nil {
		return translateError("update cliente", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a customer. Receipts are removed by the caller first and
// by the foreign key cascade as a backstop.
func (r *GormClienteRepository) Delete(ctx context.Context, dni string) error {
	result := r.db.WithContext(ctx).Where("dni = ?", dni).Delete(&models.ClienteModel{})
	if result.Error != nil {
		return translateError("delete cliente", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClienteRepository implements ledger.ClienteRepository
var _ ledger.ClienteRepository = (*GormClienteRepository)(nil)
