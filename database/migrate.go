package database

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/utils"
	"gorm.io/gorm"
)

// expectedColumns is the persisted layout the store decodes from.
var expectedColumns = []struct {
	model   interface{}
	table   string
	columns []string
}{
	{&models.Reservation{}, "reservations", []string{
		"reservation_id", "customer_id", "table_id", "reservation_time", "party_size",
		"status", "special_requests", "created_at", "updated_at",
	}},
	{&models.Table{}, "tables", []string{
		"table_id", "table_number", "capacity", "location", "status",
	}},
	{&models.Customer{}, "customers", []string{
		"customer_id", "name", "email", "phone", "created_at",
	}},
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Table{},
		&models.Customer{},
		&models.Reservation{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// ValidateSchema fails when a table or column the store relies on is missing.
func ValidateSchema(db *gorm.DB) error {
	m := db.Migrator()
	var missing []string
	for _, e := range expectedColumns {
		if !m.HasTable(e.model) {
			missing = append(missing, e.table)
			continue
		}
		for _, col := range e.columns {
			if !m.HasColumn(e.model, col) {
				missing = append(missing, e.table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch, missing: %s", strings.Join(missing, ", "))
	}
	utils.InfoLogger.Printf("Schema verified: %d tables", len(expectedColumns))
	return nil
}
