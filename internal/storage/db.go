package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/NgigiN/elibrary/internal/library"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemory opens a private SQLite database that lives as long as the Database.
const InMemory = "file::memory:"

const batchSize = 500

var groupColumns = map[library.Field]string{
	library.FieldTitle:   "book_title",
	library.FieldGenre:   "genre",
	library.FieldWeekday: "weekday",
	library.FieldMonth:   "month",
}

// Database holds the loaded transaction table and answers the grouping
// and filtering queries the dashboard needs.
type Database struct {
	db *gorm.DB
}

func NewDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// an in-memory database exists per connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Replace swaps the stored table for table in a single transaction.
func (d *Database) Replace(table library.Table) error {
	rows := make([]Transaction, 0, len(table))
	for _, tx := range table {
		rows = append(rows, fromLibrary(tx))
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&Transaction{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	return nil
}

// Table returns every stored transaction in load order.
func (d *Database) Table() (library.Table, error) {
	return d.Filter(library.Criteria{})
}

func (d *Database) Len() (int, error) {
	var n int64
	if err := d.db.Model(&Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(n), nil
}

// Filter returns the transactions matching c in load order. The result is
// a fresh slice; nothing in it refers back to the database.
func (d *Database) Filter(c library.Criteria) (library.Table, error) {
	query := d.db.Order("id")
	if c.Genre != "" {
		query = query.Where("genre = ?", c.Genre)
	}

	var rows []Transaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	table := make(library.Table, 0, len(rows))
	for _, r := range rows {
		tx := r.toLibrary()
		if c.Match(tx) {
			table = append(table, tx)
		}
	}
	return table, nil
}

func (d *Database) CountBy(field library.Field) ([]library.Count, error) {
	column, ok := groupColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	var rows []struct {
		Label string
		N     int
	}
	err := d.db.Model(&Transaction{}).
		Select("CAST(" + column + " AS TEXT) AS label, COUNT(*) AS n").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", field, err)
	}

	counts := make([]library.Count, 0, len(rows))
	for _, r := range rows {
		label := r.Label
		if field == library.FieldWeekday {
			n, err := strconv.Atoi(label)
			if err != nil {
				return nil, fmt.Errorf("bad weekday %q: %w", label, err)
			}
			label = time.Weekday(n % 7).String()
		}
		counts = append(counts, library.Count{Label: label, N: r.N})
	}
	library.SortCounts(field, counts)
	return counts, nil
}

// AverageDuration returns the mean borrowing duration, 0 when empty.
func (d *Database) AverageDuration() (float64, error) {
	var avg sql.NullFloat64
	if err := d.db.Model(&Transaction{}).Select("AVG(duration_days)").Row().Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average durations: %w", err)
	}
	return avg.Float64, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
