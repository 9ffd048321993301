package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"plantool/metrics"
	"plantool/plan"
)

// JSONReader streams a JSON array of benefit objects keyed by column name.
// Only one object is decoded at a time.
type JSONReader struct {
	file    *os.File
	decoder *json.Decoder
	itemNum int64
	skipped int64
	done    bool
	warned  bool

	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewJSONReader(path string, opts Options) (*JSONReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := newJSONReader(file, opts)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.file = file
	return r, nil
}

func newJSONReader(src io.Reader, opts Options) (*JSONReader, error) {
	bufReader := bufio.NewReaderSize(src, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	r := &JSONReader{
		decoder: json.NewDecoder(bufReader),
		logger:  opts.logger(),
		metrics: opts.Metrics,
	}
	r.decoder.UseNumber()

	tok, err := r.decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("read opening bracket: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected '[', got %v", tok)
	}
	return r, nil
}

// Next returns the next well-formed record, skipping objects that fail typing.
func (r *JSONReader) Next() (plan.Benefit, error) {
	for {
		if r.done {
			return plan.Benefit{}, io.EOF
		}
		if !r.decoder.More() {
			// Read closing ']'
			r.decoder.Token()
			r.done = true
			return plan.Benefit{}, io.EOF
		}

		var item map[string]any
		if err := r.decoder.Decode(&item); err != nil {
			return plan.Benefit{}, fmt.Errorf("decode item %d: %w", r.itemNum+1, err)
		}
		r.itemNum++

		fields := make(map[string]string, len(item))
		for k, v := range item {
			fields[strings.ToLower(k)] = clean(jsonText(v))
		}
		if !r.warned {
			r.warned = true
			missing := missingColumns(func(col string) bool {
				_, ok := fields[strings.ToLower(col)]
				return ok
			})
			if len(missing) > 0 {
				r.logger.Warn("json is missing benefit columns", "columns", missing)
			}
		}

		b, warnings, err := parseBenefit(r.itemNum, func(col string) (string, bool) {
			s, ok := fields[strings.ToLower(col)]
			return s, ok
		})
		if err != nil {
			r.skipped++
			r.metrics.RowSkipped()
			r.logger.Warn("skipping benefit object", "error", err)
			continue
		}
		for _, w := range warnings {
			r.logger.Warn("benefit value dropped", "detail", w)
		}
		return b, nil
	}
}

func jsonText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// Skipped is the number of objects dropped so far.
func (r *JSONReader) Skipped() int64 { return r.skipped }

func (r *JSONReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
