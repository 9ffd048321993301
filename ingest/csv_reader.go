package ingest

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"plantool/metrics"
	"plantool/plan"
)

// CSVReader streams a benefits CSV file, optionally gzip-compressed.
type CSVReader struct {
	file    *os.File
	gz      *gzip.Reader
	csv     *csv.Reader
	rowNum  int64
	skipped int64
	colIdx  map[string]int // lowercase header → column index

	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewCSVReader(path string, opts Options) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var src io.Reader = file
	var gz *gzip.Reader
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		src = gz
	}

	r, err := newCSVReader(src, opts)
	if err != nil {
		if gz != nil {
			gz.Close()
		}
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = file
	r.gz = gz
	return r, nil
}

func newCSVReader(src io.Reader, opts Options) (*CSVReader, error) {
	bufReader := bufio.NewReaderSize(src, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	r := &CSVReader{
		csv:     reader,
		colIdx:  make(map[string]int),
		logger:  opts.logger(),
		metrics: opts.Metrics,
	}
	if err := r.readHeaders(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CSVReader) readHeaders() error {
	headers, err := r.csv.Read()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	r.rowNum++
	for i, h := range headers {
		r.colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	missing := missingColumns(func(col string) bool {
		_, ok := r.colIdx[strings.ToLower(col)]
		return ok
	})
	if len(missing) > 0 {
		r.logger.Warn("csv is missing benefit columns", "columns", missing)
	}
	return nil
}

// Next returns the next well-formed record. Rows that fail typing are logged,
// counted and skipped.
func (r *CSVReader) Next() (plan.Benefit, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return plan.Benefit{}, io.EOF
			}
			return plan.Benefit{}, fmt.Errorf("row %d: %w", r.rowNum+1, err)
		}
		r.rowNum++

		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		b, warnings, err := parseBenefit(r.rowNum, r.cell(row))
		if err != nil {
			r.skipped++
			r.metrics.RowSkipped()
			r.logger.Warn("skipping benefit row", "error", err)
			continue
		}
		for _, w := range warnings {
			r.logger.Warn("benefit value dropped", "detail", w)
		}
		return b, nil
	}
}

func (r *CSVReader) cell(row []string) lookup {
	return func(col string) (string, bool) {
		i, ok := r.colIdx[strings.ToLower(col)]
		if !ok {
			return "", false
		}
		if i >= len(row) {
			return "", true
		}
		return clean(row[i]), true
	}
}

// RowNum is the number of physical rows consumed, header included.
func (r *CSVReader) RowNum() int64 { return r.rowNum }

// Skipped is the number of rows dropped so far.
func (r *CSVReader) Skipped() int64 { return r.skipped }

func (r *CSVReader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
