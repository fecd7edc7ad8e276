package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/NgigiN/elibrary/internal/chart"
	"github.com/NgigiN/elibrary/internal/config"
	"github.com/NgigiN/elibrary/internal/dashboard"
	"github.com/NgigiN/elibrary/internal/discord"
	"github.com/NgigiN/elibrary/internal/library"
	"github.com/NgigiN/elibrary/internal/loader"
	"github.com/NgigiN/elibrary/internal/logging"
	"github.com/NgigiN/elibrary/internal/report"
	"github.com/NgigiN/elibrary/internal/stats"
	"github.com/NgigiN/elibrary/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stdout, "Error:", err)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("elibrary", flag.ContinueOnError)
	flags.SetOutput(stderr)
	genre := flags.String("genre", "", "also report on transactions of this genre")
	from := flags.String("from", "", "start of an inclusive date range, used together with -to")
	to := flags.String("to", "", "end of an inclusive date range, used together with -from")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})

	criteria, err := parseCriteria(*genre, *from, *to, logger)
	if err != nil {
		return err
	}

	db, err := storage.NewDatabase(storage.InMemory)
	if err != nil {
		return fmt.Errorf("failed to initialize the database: %w", err)
	}
	defer db.Close()

	dash := dashboard.New(db, logger)
	if err := dash.Load(cfg.DataFile); err != nil {
		return err
	}

	reporter := report.New(report.Format(cfg.ReportFormat))
	if err := dash.Report(stdout, reporter); err != nil {
		return err
	}

	if criteria != nil {
		if err := filteredReport(stdout, dash, *criteria, reporter.Format, logger); err != nil {
			return err
		}
	}

	if cfg.Discord.Enabled() {
		publishReport(dash, cfg.Discord, logger)
	}

	display := chart.NewDisplay(stdout, stdin, chart.Terminal{Width: cfg.ChartWidth, Color: cfg.Color}, cfg.Interactive)
	return dash.Visualize(display)
}

// parseCriteria returns nil when no filter flag was given.
func parseCriteria(genre, from, to string, logger zerolog.Logger) (*library.Criteria, error) {
	if genre == "" && from == "" && to == "" {
		return nil, nil
	}

	c := &library.Criteria{Genre: genre}
	var err error
	if from != "" {
		if c.Start, err = loader.ParseDate(from); err != nil {
			return nil, fmt.Errorf("invalid -from date %q: %w", from, err)
		}
	}
	if to != "" {
		if c.End, err = loader.ParseDate(to); err != nil {
			return nil, fmt.Errorf("invalid -to date %q: %w", to, err)
		}
	}
	if (from == "") != (to == "") {
		logger.Warn().Msg("date range needs both -from and -to; range ignored")
	}
	return c, nil
}

func filteredReport(w io.Writer, dash *dashboard.Dashboard, c library.Criteria, format report.Format, logger zerolog.Logger) error {
	filtered, err := dash.Filter(c)
	if err != nil {
		return err
	}
	logger.Info().Int("rows", filtered.Len()).Msg("filtered transactions")

	title := filterTitle(c)
	if filtered.Len() == 0 {
		_, err := fmt.Fprintf(w, "\n%s\nNo matching transactions.\n", title)
		return err
	}

	s, err := stats.Compute(stats.FromTable(filtered))
	if err != nil {
		return err
	}
	return (&report.Reporter{Format: format, Title: title}).Write(w, s)
}

func filterTitle(c library.Criteria) string {
	var parts []string
	if c.Genre != "" {
		parts = append(parts, "genre "+c.Genre)
	}
	if c.HasRange() {
		parts = append(parts, c.Start.Format("2006-01-02")+" to "+c.End.Format("2006-01-02"))
	}
	if len(parts) == 0 {
		return "FILTERED REPORT"
	}
	return "FILTERED REPORT (" + strings.Join(parts, ", ") + ")"
}

// publishReport posts the markdown report. Failures are logged, not fatal.
func publishReport(dash *dashboard.Dashboard, cfg config.DiscordConfig, logger zerolog.Logger) {
	s, err := dash.Statistics()
	if err != nil {
		logger.Warn().Err(err).Msg("skipping Discord report")
		return
	}
	p, err := discord.NewPublisher(cfg.BotToken, cfg.ChannelID)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping Discord report")
		return
	}
	if err := p.Publish(report.Markdown(report.DefaultTitle, s)); err != nil {
		logger.Warn().Err(err).Msg("failed to publish Discord report")
		return
	}
	logger.Info().Str("channel", cfg.ChannelID).Msg("report posted to Discord")
}
