package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/NgigiN/elibrary/internal/library"
	"github.com/rs/zerolog"
)

const extension = ".csv"

type Loader struct {
	log zerolog.Logger
}

func New(logger zerolog.Logger) *Loader {
	return &Loader{log: logger.With().Str("component", "loader").Logger()}
}

// Load reads and cleans the transaction file at path. Loading is all or
// nothing: any error leaves no partial table behind.
func (l *Loader) Load(path string) (library.Table, error) {
	l.log.Info().Str("path", path).Msg("Loading dataset...")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &library.NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !strings.HasSuffix(path, extension) {
		return nil, &library.FormatError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if res.Dropped > 0 {
		l.log.Debug().Int("dropped", res.Dropped).Msg("dropped rows with missing values")
	}

	l.log.Info().
		Int("rows", res.Table.Len()).
		Int("dropped", res.Dropped).
		Msg("Data loaded and validated successfully.")
	return res.Table, nil
}
