// sqlite.go SQLite database export using GORM
package export

import (
	"github.com/tphakala/nestwatch-go/internal/errors"
	"github.com/tphakala/nestwatch-go/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// insertBatchSize keeps single insert statements at a reasonable size for
// decades-long datasets.
const insertBatchSize = 500

// WriteSQLite writes the four output tables into a SQLite database at path,
// creating or migrating the schema first. All inserts run in one transaction
// so a failed run leaves no partial tables behind.
func WriteSQLite(ds *Dataset, path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}

	if err := db.AutoMigrate(
		&model.BroodRecord{},
		&model.CaptureRecord{},
		&model.IndividualSummary{},
		&model.LocationRecord{},
	); err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(ds.Broods) > 0 {
			if err := tx.CreateInBatches(ds.Broods, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(ds.Captures) > 0 {
			if err := tx.CreateInBatches(ds.Captures, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(ds.Individuals) > 0 {
			if err := tx.CreateInBatches(ds.Individuals, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(ds.Locations) > 0 {
			if err := tx.CreateInBatches(ds.Locations, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("export").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}
	return nil
}
