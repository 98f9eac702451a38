package models

import "github.com/google/uuid"

// assignID gives a new row its primary key before insert.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every persisted model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserRole{},
		&Reservation{},
		&MenuCategory{},
		&MenuItem{},
		&GalleryImage{},
		&SiteSetting{},
	}
}
