package storage

import (
	"time"

	"github.com/NgigiN/elibrary/internal/library"
	"gorm.io/gorm"
)

// Transaction is the stored form of a borrowing record. ID follows load
// order; Weekday (Monday = 1) and Month are derived from Date on insert.
type Transaction struct {
	gorm.Model
	TransactionID string `gorm:"index"`
	Date          time.Time
	UserID        string
	BookTitle     string `gorm:"index"`
	Genre         string `gorm:"index"`
	DurationDays  int
	Weekday       int
	Month         int
}

func fromLibrary(tx library.Transaction) Transaction {
	return Transaction{
		TransactionID: tx.TransactionID,
		Date:          tx.Date,
		UserID:        tx.UserID,
		BookTitle:     tx.BookTitle,
		Genre:         tx.Genre,
		DurationDays:  tx.DurationDays,
		Weekday:       library.WeekdayIndex(tx.Date.Weekday().String()) + 1,
		Month:         int(tx.Date.Month()),
	}
}

func (t Transaction) toLibrary() library.Transaction {
	return library.Transaction{
		TransactionID: t.TransactionID,
		Date:          t.Date.UTC(),
		UserID:        t.UserID,
		BookTitle:     t.BookTitle,
		Genre:         t.Genre,
		DurationDays:  t.DurationDays,
	}
}
