package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
)

// New wraps gorm's migration functions with schema versioning and rollback.
// For help writing migration steps, see the gorm documentation on
// migrations: https://gorm.io/docs/migration.html
func New(steps ...*gormigrate.Migration) *Migrations {
	return &Migrations{
		GormOptions: &gormigrate.Options{
			TableName:      "apiserver_migrations",
			IDColumnName:   "id",
			IDColumnSize:   40,
			UseTransaction: false,
		},
		Migrations: steps,
	}
}
