package dao

import "gorm.io/gorm"

func models() []any {
	return []any{
		&User{},
		&Game{},
		&Rental{},
		&Event{},
		&EventRegistration{},
		&Notification{},
		&GameWatch{},
		&Warning{},
	}
}

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// ResetTables drops every table and recreates the schema.
func ResetTables(db *gorm.DB) error {
	m := models()
	// Reverse so that referencing tables go first.
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
	if err := db.Migrator().DropTable(m...); err != nil {
		return err
	}

	return InitTables(db)
}
