package library

import (
	"sort"
	"strconv"
	"time"
)

// Column names every transaction file must carry, in the order they are checked.
const (
	ColumnTransactionID = "Transaction ID"
	ColumnDate          = "Date"
	ColumnUserID        = "User ID"
	ColumnBookTitle     = "Book Title"
	ColumnGenre         = "Genre"
	ColumnDuration      = "Borrowing Duration (Days)"
)

var RequiredColumns = []string{
	ColumnTransactionID,
	ColumnDate,
	ColumnUserID,
	ColumnBookTitle,
	ColumnGenre,
	ColumnDuration,
}

// Transaction is a single borrowing record.
type Transaction struct {
	TransactionID string
	Date          time.Time
	UserID        string
	BookTitle     string
	Genre         string
	DurationDays  int
}

// Table is an ordered set of transactions, kept in file order.
type Table []Transaction

func (t Table) Len() int { return len(t) }

// Field names a column that transactions can be grouped by.
type Field string

const (
	FieldTitle   Field = "title"
	FieldGenre   Field = "genre"
	FieldWeekday Field = "weekday"
	FieldMonth   Field = "month"
)

// Key returns the group label of tx for this field.
// Weekdays use their English name, months their number (1-12).
func (f Field) Key(tx Transaction) string {
	switch f {
	case FieldTitle:
		return tx.BookTitle
	case FieldGenre:
		return tx.Genre
	case FieldWeekday:
		return tx.Date.Weekday().String()
	case FieldMonth:
		return strconv.Itoa(int(tx.Date.Month()))
	}
	return ""
}

// less orders two labels of the same field when their counts tie.
func (f Field) less(a, b string) bool {
	switch f {
	case FieldWeekday:
		return WeekdayIndex(a) < WeekdayIndex(b)
	case FieldMonth:
		ma, _ := strconv.Atoi(a)
		mb, _ := strconv.Atoi(b)
		return ma < mb
	}
	return a < b
}

// WeekdayIndex ranks a weekday name Monday=0 .. Sunday=6. Unknown names sort last.
func WeekdayIndex(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return (int(d) + 6) % 7
		}
	}
	return 7
}

// Count is the number of transactions sharing one label.
type Count struct {
	Label string `json:"label"`
	N     int    `json:"count"`
}

// Counter groups transactions by a field.
// Results are ordered as SortCounts leaves them.
type Counter interface {
	CountBy(field Field) ([]Count, error)
}

// SortCounts orders counts by descending N. Ties fall back to the field's
// natural order: lexical for titles and genres, Monday first for weekdays,
// January first for months.
func SortCounts(field Field, counts []Count) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return field.less(counts[i].Label, counts[j].Label)
	})
}

// CountBy groups the table in memory.
func (t Table) CountBy(field Field) []Count {
	index := make(map[string]int)
	var counts []Count
	for _, tx := range t {
		key := field.Key(tx)
		i, ok := index[key]
		if !ok {
			i = len(counts)
			index[key] = i
			counts = append(counts, Count{Label: key})
		}
		counts[i].N++
	}
	SortCounts(field, counts)
	return counts
}

// AverageDuration is the arithmetic mean of DurationDays, 0 for an empty table.
func (t Table) AverageDuration() float64 {
	if len(t) == 0 {
		return 0
	}
	var sum int
	for _, tx := range t {
		sum += tx.DurationDays
	}
	return float64(sum) / float64(len(t))
}

// Criteria restricts a table by genre and/or date range.
// The range only applies when both Start and End are set.
type Criteria struct {
	Genre string
	Start time.Time
	End   time.Time
}

func (c Criteria) HasRange() bool {
	return !c.Start.IsZero() && !c.End.IsZero()
}

// Match reports whether tx passes the criteria. Both range ends are inclusive.
func (c Criteria) Match(tx Transaction) bool {
	if c.Genre != "" && tx.Genre != c.Genre {
		return false
	}
	if c.HasRange() && (tx.Date.Before(c.Start) || tx.Date.After(c.End)) {
		return false
	}
	return true
}
