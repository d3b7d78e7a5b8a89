package mysql

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withRowLock adds SELECT ... FOR UPDATE on dialects that support it.
// SQLite rejects the clause and serializes writers on its own.
func withRowLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
