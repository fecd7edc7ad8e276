package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/NgigiN/elibrary/internal/library"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Transaction ID,Date,User ID,Book Title,Genre,Borrowing Duration (Days)\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWellFormed(t *testing.T) {
	path := writeFile(t, "library.csv", header+
		"T1,2024-01-15,U1,Dune,Fiction,3\n"+
		"T2,2024-02-20,U2,Atlas,Science,5\n"+
		"T3,2024-02-21,U1,Dune,Fiction,4\n")

	table, err := New(zerolog.Nop()).Load(path)
	require.NoError(t, err)
	require.Len(t, table, 3)

	first := table[0]
	assert.Equal(t, "T1", first.TransactionID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "U1", first.UserID)
	assert.Equal(t, "Dune", first.BookTitle)
	assert.Equal(t, "Fiction", first.Genre)
	assert.Equal(t, 3, first.DurationDays)
	assert.Equal(t, "T3", table[2].TransactionID)
}

func TestLoadNotFound(t *testing.T) {
	_, err := New(zerolog.Nop()).Load(filepath.Join(t.TempDir(), "missing.csv"))

	var nf *library.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Contains(t, nf.Path, "missing.csv")
}

func TestLoadWrongExtension(t *testing.T) {
	for _, name := range []string{"library.txt", "library.CSV", "library"} {
		path := writeFile(t, name, header+"T1,2024-01-15,U1,Dune,Fiction,3\n")

		_, err := New(zerolog.Nop()).Load(path)

		var fe *library.FormatError
		assert.True(t, errors.As(err, &fe), "%s: got %v", name, err)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	for _, missing := range library.RequiredColumns {
		t.Run(missing, func(t *testing.T) {
			var cols, vals []string
			sample := map[string]string{
				library.ColumnTransactionID: "T1",
				library.ColumnDate:          "2024-01-15",
				library.ColumnUserID:        "U1",
				library.ColumnBookTitle:     "Dune",
				library.ColumnGenre:         "Fiction",
				library.ColumnDuration:      "3",
			}
			for _, c := range library.RequiredColumns {
				if c == missing {
					continue
				}
				cols = append(cols, `"`+c+`"`)
				vals = append(vals, sample[c])
			}
			path := writeFile(t, "library.csv", strings.Join(cols, ",")+"\n"+strings.Join(vals, ",")+"\n")

			_, err := New(zerolog.Nop()).Load(path)

			var se *library.SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, missing, se.Column)
			assert.EqualError(t, err, "missing column: "+missing)
		})
	}
}

func TestLoadReportsFirstMissingColumn(t *testing.T) {
	path := writeFile(t, "library.csv", "Transaction ID,Date,Book Title\nT1,2024-01-15,Dune\n")

	_, err := New(zerolog.Nop()).Load(path)

	var se *library.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, library.ColumnUserID, se.Column)
}

func TestParseDropsIncompleteRows(t *testing.T) {
	in := header +
		"T1,2024-01-15,U1,Dune,Fiction,3\n" +
		"T2,,U2,Atlas,Science,5\n" +
		"T3,2024-01-16,U3,Atlas,NA,5\n" +
		"T4,2024-01-17,U4,Atlas,Science\n" +
		"T5,2024-01-18,U5,Emma,Classic,   \n" +
		"T6,not a date,U6,Emma,Classic,null\n" +
		"T7,2024-01-19,U7,Emma,Classic,2\n"

	res, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Dropped)
	require.Len(t, res.Table, 2)
	assert.Equal(t, "T1", res.Table[0].TransactionID)
	assert.Equal(t, "T7", res.Table[1].TransactionID)
}

func TestParseExtraColumnsMustBeComplete(t *testing.T) {
	in := "Branch," + header +
		"North,T1,2024-01-15,U1,Dune,Fiction,3\n" +
		",T2,2024-01-16,U2,Dune,Fiction,3\n"

	res, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Table, 1)
	assert.Equal(t, "T1", res.Table[0].TransactionID)
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-03-05", "03/05/2024", "Mar 5, 2024", "2024/03/05"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}

	withTime, err := ParseDate("2024-03-05 14:30:00")
	require.NoError(t, err)
	assert.Equal(t, 14, withTime.Hour())
}

func TestParseInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"bad date", "T1,someday,U1,Dune,Fiction,3", library.ColumnDate},
		{"negative duration", "T1,2024-01-15,U1,Dune,Fiction,-2", library.ColumnDuration},
		{"fractional duration", "T1,2024-01-15,U1,Dune,Fiction,2.5", library.ColumnDuration},
		{"text duration", "T1,2024-01-15,U1,Dune,Fiction,three", library.ColumnDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(header + tt.row + "\n"))

			var pe *library.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, 2, pe.Line)
		})
	}
}

func TestParseWholeFloatDuration(t *testing.T) {
	res, err := Parse(strings.NewReader(header + "T1,2024-01-15,U1,Dune,Fiction,4.0\n"))
	require.NoError(t, err)
	require.Len(t, res.Table, 1)
	assert.Equal(t, 4, res.Table[0].DurationDays)
}

func TestParseHeaderOnlyAndEmpty(t *testing.T) {
	res, err := Parse(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, res.Table)

	_, err = Parse(strings.NewReader(""))
	var se *library.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, library.ColumnTransactionID, se.Column)
}

func TestParseByteOrderMark(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufeff" + header + "T1,2024-01-15,U1,Dune,Fiction,3\n"))
	require.NoError(t, err)
	assert.Len(t, res.Table, 1)
}

func TestParseMalformedRecord(t *testing.T) {
	_, err := Parse(strings.NewReader(header + "T1,2024-01-15,U1,\"Dune,Fiction,3\n"))

	var pe *library.ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Empty(t, pe.Column)
}
