package persistence

import (
	"errors"
	"fmt"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors (already translated by the dialector when
// TranslateError is on) to domain sentinels. Anything else is wrapped with op.
func translateError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
