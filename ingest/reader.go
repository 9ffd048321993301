// Package ingest reads benefit records from CSV, JSON and Parquet files and
// moves them between those files and PostgreSQL.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"plantool/metrics"
	"plantool/plan"
)

// Reader streams benefit records. Next returns io.EOF after the last record.
type Reader interface {
	Next() (plan.Benefit, error)
	Close() error
}

type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Filter, when non-nil, keeps only records whose plan id it contains.
	Filter PlanFilter
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Open picks a reader from the file extension: .csv, .csv.gz, .json or .parquet.
func Open(path string, opts Options) (Reader, error) {
	var (
		r   Reader
		err error
	)
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".csv.gz"):
		r, err = NewCSVReader(path, opts)
	case strings.HasSuffix(lower, ".json"):
		r, err = NewJSONReader(path, opts)
	case strings.HasSuffix(lower, ".parquet"):
		r, err = NewParquetReader(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if opts.Filter != nil {
		r = &filteredReader{Reader: r, filter: opts.Filter}
	}
	return r, nil
}

type filteredReader struct {
	Reader
	filter PlanFilter
}

func (f *filteredReader) Next() (plan.Benefit, error) {
	for {
		b, err := f.Reader.Next()
		if err != nil || f.filter.Contains(b.PlanID) {
			return b, err
		}
	}
}

// ReadAll drains r and closes it.
func ReadAll(r Reader) ([]plan.Benefit, error) {
	defer r.Close()
	var out []plan.Benefit
	for {
		b, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
}

// LoadFile reads every record in path.
func LoadFile(path string, opts Options) ([]plan.Benefit, error) {
	r, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	records, err := ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts.logger().Info("loaded benefit records", "path", path, "records", len(records))
	return records, nil
}
