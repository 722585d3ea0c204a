package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the domain repositories. It carries either the shared
// connection or a caller-owned transaction.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx; a nil ctx returns it unbound.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Bind returns a Base running on tx, or b itself when tx is nil.
func (b Base) Bind(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Affected unpacks the result of an UPDATE or DELETE.
func Affected(res *gorm.DB) (int64, error) {
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
