package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"plantool/plan"
)

// BenefitWriter writes benefit records to a zstd-compressed Parquet file with
// page statistics on every column. Sorting input by plan id before writing
// lets readers skip row groups when filtering by plan.
type BenefitWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[BenefitRow]
	count  int
}

func NewBenefitWriter(filename string) (*BenefitWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[BenefitRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.WriteBufferSize(64*1024*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("plantool", "1.0", ""),
	)

	return &BenefitWriter{
		file:   file,
		writer: writer,
	}, nil
}

// Write writes a batch of records.
func (w *BenefitWriter) Write(records []plan.Benefit) (int, error) {
	rows := make([]BenefitRow, len(records))
	for i, b := range records {
		rows[i] = FromBenefit(b)
	}
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the final row group and closes the file.
func (w *BenefitWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

func (w *BenefitWriter) Count() int {
	return w.count
}

const parquetBatch = 1024

// ParquetReader streams records from a file written by BenefitWriter.
type ParquetReader struct {
	file   *os.File
	reader *parquet.GenericReader[BenefitRow]
	buf    []BenefitRow
	pos    int
	eof    bool
}

func NewParquetReader(path string) (*ParquetReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &ParquetReader{
		file:   f,
		reader: parquet.NewGenericReader[BenefitRow](f),
		buf:    make([]BenefitRow, 0, parquetBatch),
	}, nil
}

// NumRows is the row count recorded in the file footer.
func (r *ParquetReader) NumRows() int64 { return r.reader.NumRows() }

func (r *ParquetReader) Next() (plan.Benefit, error) {
	for r.pos >= len(r.buf) {
		if r.eof {
			return plan.Benefit{}, io.EOF
		}
		r.buf = r.buf[:parquetBatch]
		n, err := r.reader.Read(r.buf)
		r.buf, r.pos = r.buf[:n], 0
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return plan.Benefit{}, fmt.Errorf("read parquet: %w", err)
		}
	}
	row := r.buf[r.pos]
	r.pos++
	return row.ToBenefit(), nil
}

func (r *ParquetReader) Close() error {
	r.reader.Close()
	return r.file.Close()
}

// ConvertFile copies every record from in to a Parquet file at out, writing
// in batches. It returns the number of records written.
func ConvertFile(in, out string, opts Options) (int, error) {
	r, err := Open(in, opts)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w, err := NewBenefitWriter(out)
	if err != nil {
		return 0, err
	}

	batch := make([]plan.Benefit, 0, parquetBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := w.Write(batch)
		batch = batch[:0]
		return err
	}
	for {
		b, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			w.Close()
			return w.Count(), fmt.Errorf("read %s: %w", in, err)
		}
		batch = append(batch, b)
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				w.Close()
				return w.Count(), err
			}
		}
	}
	if err := flush(); err != nil {
		w.Close()
		return w.Count(), err
	}
	if err := w.Close(); err != nil {
		return w.Count(), err
	}
	opts.logger().Info("converted benefit records", "input", in, "output", out, "records", w.Count())
	return w.Count(), nil
}
