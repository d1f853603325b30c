package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/gridcluster/model"
)

// Format is the encoding of a point file.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// Compression wraps a point file.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// stdio names standard input or output in place of a path.
const stdio = "-"

var errUnknownFormat = errors.New("unknown file format")

// detect derives format and compression from a file name such as
// "points.csv.zst". Standard input and output are plain CSV.
func detect(path string) (Format, Compression, error) {
	if path == stdio || path == "" {
		return FormatCSV, CompressionNone, nil
	}

	name := strings.ToLower(filepath.Base(path))
	comp := CompressionNone
	switch ext := filepath.Ext(name); ext {
	case ".zst", ".zstd":
		comp = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	case ".lz4":
		comp = CompressionLZ4
		name = strings.TrimSuffix(name, ext)
	}

	switch filepath.Ext(name) {
	case ".csv", ".txt":
		return FormatCSV, comp, nil
	case ".json":
		return FormatJSON, comp, nil
	default:
		return 0, comp, fmt.Errorf("%w: %s", errUnknownFormat, path)
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

type writeCloser struct {
	io.Writer
	close func() error
}

func (w writeCloser) Close() error { return w.close() }

// openInput opens path for reading and undoes its compression.
func openInput(path string, stdin io.Reader) (io.ReadCloser, Format, error) {
	format, comp, err := detect(path)
	if err != nil {
		return nil, 0, err
	}
	if path == stdio || path == "" {
		return io.NopCloser(stdin), format, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	switch comp {
	case CompressionZstd:
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("zstd reader: %w", err)
		}
		return readCloser{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, format, nil
	case CompressionLZ4:
		return readCloser{Reader: lz4.NewReader(f), close: f.Close}, format, nil
	default:
		return f, format, nil
	}
}

// createOutput creates path for writing with the compression its name asks
// for. Closing the writer flushes the compressor and then the file.
func createOutput(path string, stdout io.Writer) (io.WriteCloser, Format, error) {
	format, comp, err := detect(path)
	if err != nil {
		return nil, 0, err
	}
	if path == stdio || path == "" {
		return writeCloser{Writer: stdout, close: func() error { return nil }}, format, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, 0, err
	}

	chain := func(inner io.WriteCloser) io.WriteCloser {
		return writeCloser{Writer: inner, close: func() error {
			return errors.Join(inner.Close(), f.Close())
		}}
	}

	switch comp {
	case CompressionZstd:
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("zstd writer: %w", err)
		}
		return chain(enc), format, nil
	case CompressionLZ4:
		return chain(lz4.NewWriter(f)), format, nil
	default:
		return f, format, nil
	}
}

type pointRecord struct {
	ID          model.PointID `json:"id"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Cluster     *int          `json:"cluster,omitempty"`
	ClusterSize int           `json:"cluster_size,omitempty"`
}

// ReadPoints decodes points. CSV rows are "id,x,y"; a header row and lines
// starting with '#' are skipped. JSON is an array of {"id","x","y"} objects.
func ReadPoints(r io.Reader, f Format) ([]model.Point, error) {
	switch f {
	case FormatJSON:
		var recs []pointRecord
		if err := json.NewDecoder(r).Decode(&recs); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		points := make([]model.Point, len(recs))
		for i, rec := range recs {
			points[i] = model.NewPoint(rec.ID, rec.X, rec.Y)
		}
		return points, nil
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %v", errUnknownFormat, f)
	}
}

func readCSV(r io.Reader) ([]model.Point, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var points []model.Point
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return points, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 3 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: want id,x,y, got %d fields", line, len(rec))
		}

		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			if row == 0 {
				continue
			}
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: id: %w", line, err)
		}
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			line, _ := cr.FieldPos(1)
			return nil, fmt.Errorf("line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			line, _ := cr.FieldPos(2)
			return nil, fmt.Errorf("line %d: y: %w", line, err)
		}
		points = append(points, model.NewPoint(model.PointID(id), x, y))
	}
}

// WritePoints encodes annotated points. CSV gets an
// "id,x,y,cluster,cluster_size" header.
func WritePoints(w io.Writer, f Format, points []model.Point) error {
	switch f {
	case FormatJSON:
		recs := make([]pointRecord, len(points))
		for i, p := range points {
			recs[i] = pointRecord{ID: p.ID, X: p.X, Y: p.Y, ClusterSize: p.ClusterSize}
			if p.ClusterID != model.Unassigned {
				id := p.ClusterID
				recs[i].Cluster = &id
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "x", "y", "cluster", "cluster_size"}); err != nil {
			return err
		}
		for _, p := range points {
			if err := cw.Write([]string{
				strconv.FormatUint(uint64(p.ID), 10),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
				strconv.Itoa(p.ClusterID),
				strconv.Itoa(p.ClusterSize),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("%w: %v", errUnknownFormat, f)
	}
}
