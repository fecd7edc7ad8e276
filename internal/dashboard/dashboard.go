package dashboard

import (
	"fmt"
	"io"

	"github.com/NgigiN/elibrary/internal/chart"
	"github.com/NgigiN/elibrary/internal/library"
	"github.com/NgigiN/elibrary/internal/loader"
	"github.com/NgigiN/elibrary/internal/report"
	"github.com/NgigiN/elibrary/internal/stats"
	"github.com/NgigiN/elibrary/internal/storage"
	"github.com/rs/zerolog"
)

// Dashboard owns one transaction table, held in db, and answers every
// query against it. It is not safe for concurrent use.
type Dashboard struct {
	db     *storage.Database
	loader *loader.Loader
	log    zerolog.Logger
	loaded bool
}

func New(db *storage.Database, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		db:     db,
		loader: loader.New(logger),
		log:    logger,
	}
}

// Load replaces the table with the contents of path. On error the
// previously loaded table, if any, is kept.
func (d *Dashboard) Load(path string) error {
	table, err := d.loader.Load(path)
	if err != nil {
		return err
	}
	if err := d.db.Replace(table); err != nil {
		return err
	}
	d.loaded = true
	return nil
}

// Table returns a copy of the loaded transactions in file order.
func (d *Dashboard) Table() (library.Table, error) {
	if !d.loaded {
		return nil, library.ErrNotLoaded
	}
	return d.db.Table()
}

func (d *Dashboard) Statistics() (stats.Summary, error) {
	if !d.loaded {
		return stats.Summary{}, library.ErrNotLoaded
	}
	return stats.Compute(d.db)
}

// Filter returns the rows matching c as a new table. The loaded table is
// left untouched.
func (d *Dashboard) Filter(c library.Criteria) (library.Table, error) {
	if !d.loaded {
		return nil, library.ErrNotLoaded
	}
	return d.db.Filter(c)
}

// Report computes fresh statistics and writes them with r.
func (d *Dashboard) Report(w io.Writer, r *report.Reporter) error {
	s, err := d.Statistics()
	if err != nil {
		return err
	}
	return r.Write(w, s)
}

// Visualize shows the four dashboard charts in turn.
func (d *Dashboard) Visualize(display *chart.Display) error {
	if !d.loaded {
		return library.ErrNotLoaded
	}
	n, err := d.db.Len()
	if err != nil {
		return err
	}
	if n == 0 {
		return library.ErrEmptyTable
	}

	charts, err := chart.Build(d.db)
	if err != nil {
		return fmt.Errorf("failed to build charts: %w", err)
	}
	for _, c := range charts {
		d.log.Debug().Str("chart", c.Title).Int("points", len(c.Points)).Msg("showing chart")
		if err := display.Show(c); err != nil {
			return err
		}
	}
	return nil
}
