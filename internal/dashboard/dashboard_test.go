package dashboard

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NgigiN/elibrary/internal/chart"
	"github.com/NgigiN/elibrary/internal/library"
	"github.com/NgigiN/elibrary/internal/report"
	"github.com/NgigiN/elibrary/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactions = `Transaction ID,Date,User ID,Book Title,Genre,Borrowing Duration (Days)
T1,2024-01-01,U1,Dune,Fiction,3
T2,2024-01-02,U2,Atlas,Science,5
T3,2024-02-05,U1,Dune,Fiction,4
T4,2024-03-10,U3,Emma,Classic,
T5,2024-03-11,U4,Dune,Fiction,4
T6,2024-04-16,U5,Atlas,Science,4
`

func newDashboard(t *testing.T) *Dashboard {
	t.Helper()
	db, err := storage.NewDatabase(storage.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, zerolog.Nop())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library_transaction.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loaded(t *testing.T) *Dashboard {
	t.Helper()
	d := newDashboard(t)
	require.NoError(t, d.Load(writeCSV(t, transactions)))
	return d
}

func TestLoadDropsIncompleteRows(t *testing.T) {
	d := loaded(t)

	table, err := d.Table()
	require.NoError(t, err)
	assert.Len(t, table, 5)
	for _, tx := range table {
		assert.NotEqual(t, "T4", tx.TransactionID)
	}
}

func TestStatistics(t *testing.T) {
	d := loaded(t)

	s, err := d.Statistics()
	require.NoError(t, err)
	assert.Equal(t, "Dune", s.MostBorrowedTitle)
	assert.Equal(t, 4.0, s.AverageDuration)
	assert.Equal(t, "Monday", s.BusiestDay)
}

func TestFilterByGenre(t *testing.T) {
	d := loaded(t)

	fiction, err := d.Filter(library.Criteria{Genre: "Fiction"})
	require.NoError(t, err)
	var ids []string
	for _, tx := range fiction {
		assert.Equal(t, "Fiction", tx.Genre)
		ids = append(ids, tx.TransactionID)
	}
	assert.Equal(t, []string{"T1", "T3", "T5"}, ids)

	none, err := d.Filter(library.Criteria{Genre: "Poetry"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFilterStartDateOnlyIsNoop(t *testing.T) {
	d := loaded(t)

	all, err := d.Table()
	require.NoError(t, err)
	got, err := d.Filter(library.Criteria{Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestFilterNeverMutatesSource(t *testing.T) {
	d := loaded(t)

	before, err := d.Table()
	require.NoError(t, err)

	got, err := d.Filter(library.Criteria{
		Genre: "Fiction",
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	got[0].BookTitle = "changed"

	after, err := d.Table()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReport(t *testing.T) {
	d := loaded(t)

	var buf bytes.Buffer
	require.NoError(t, d.Report(&buf, report.New(report.FormatText)))
	assert.Contains(t, buf.String(), "Most Borrowed Book: Dune\n")
	assert.Contains(t, buf.String(), "Average Borrowing Duration (Days): 4.0\n")
	assert.Contains(t, buf.String(), "Busiest Day: Monday\n")
}

func TestVisualize(t *testing.T) {
	d := loaded(t)

	var out bytes.Buffer
	display := chart.NewDisplay(&out, strings.NewReader(""), chart.Terminal{}, false)
	require.NoError(t, d.Visualize(display))

	for _, title := range []string{
		"Top 5 Most Borrowed Books",
		"Borrowing Trends Over Months",
		"Distribution of Books by Genre",
		"Borrowing Activity Heatmap",
	} {
		assert.Contains(t, out.String(), title)
	}
}

func TestVisualizeEmptyTable(t *testing.T) {
	d := newDashboard(t)
	require.NoError(t, d.Load(writeCSV(t, "Transaction ID,Date,User ID,Book Title,Genre,Borrowing Duration (Days)\n")))

	var out bytes.Buffer
	err := d.Visualize(chart.NewDisplay(&out, strings.NewReader(""), chart.Terminal{}, false))
	assert.ErrorIs(t, err, library.ErrEmptyTable)
}

func TestOperationsBeforeLoad(t *testing.T) {
	d := newDashboard(t)

	_, err := d.Statistics()
	assert.ErrorIs(t, err, library.ErrNotLoaded)
	_, err = d.Filter(library.Criteria{})
	assert.ErrorIs(t, err, library.ErrNotLoaded)
	_, err = d.Table()
	assert.ErrorIs(t, err, library.ErrNotLoaded)
	assert.ErrorIs(t, d.Report(&bytes.Buffer{}, report.New(report.FormatText)), library.ErrNotLoaded)
	assert.ErrorIs(t, d.Visualize(nil), library.ErrNotLoaded)
}

func TestFailedReloadKeepsTable(t *testing.T) {
	d := loaded(t)

	err := d.Load(writeCSV(t, "Transaction ID,Date\nT9,2024-05-01\n"))
	var se *library.SchemaError
	require.True(t, errors.As(err, &se))

	table, err := d.Table()
	require.NoError(t, err)
	assert.Len(t, table, 5)
}
