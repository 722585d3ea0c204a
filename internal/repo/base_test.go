package repo

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Text string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&note{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return the raw connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	if got := base.DB(ctx).Statement.Context; got != ctx {
		t.Fatalf("expected statement context to be the provided one")
	}
}

func TestBindKeepsBaseWhenTxIsNil(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.Bind(nil).db != db {
		t.Fatalf("expected nil tx to keep the shared connection")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if base.Bind(tx).db != tx {
			t.Fatalf("expected bound base to use the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestAffected(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&note{Text: "uno"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := Affected(db.Model(&note{}).Where("text = ?", "uno").Update("text", "dos"))
	if err != nil || n != 1 {
		t.Fatalf("expected one updated row, got %d (%v)", n, err)
	}

	n, err = Affected(db.Where("text = ?", "tres").Delete(&note{}))
	if err != nil || n != 0 {
		t.Fatalf("expected zero deleted rows, got %d (%v)", n, err)
	}
}
