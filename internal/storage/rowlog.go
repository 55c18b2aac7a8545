package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/rigidlog/internal/dynamo"
	"github.com/san-kum/rigidlog/internal/telemetry"
)

// segmentWidth is the number of CSV fields each body occupies: name (or
// leading blank), the value columns and the blank separator.
var segmentWidth = len(telemetry.RowColumns) + 2

var (
	ErrBadHeader   = errors.New("storage: malformed row log header")
	ErrUnknownBody = errors.New("storage: body not in row log")
	ErrUnknownCol  = errors.New("storage: unknown column")
)

// RowLog is a parsed row log. Samples[tick][body] holds the values in
// telemetry.RowColumns order.
type RowLog struct {
	Path    string
	Bodies  []string
	Samples [][][]float64

	// Truncated counts trailing rows that were cut short, typically by a
	// run that died mid-write.
	Truncated int
}

// LoadRowLog reads and parses a row log file.
func LoadRowLog(path string) (*RowLog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	log, err := ParseRowLog(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Path = path
	return log, nil
}

// ParseRowLog parses the header line and every data row from r.
func ParseRowLog(r io.Reader) (*RowLog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return &RowLog{Bodies: []string{}, Samples: [][][]float64{}}, nil
	}
	if err != nil {
		return nil, err
	}

	bodies, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	width := len(header)

	log := &RowLog{Bodies: bodies, Samples: make([][][]float64, 0)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != width {
			log.Truncated++
			continue
		}

		tick := make([][]float64, len(bodies))
		for b := range bodies {
			vals := make([]float64, len(telemetry.RowColumns))
			base := b*segmentWidth + 1
			for c := range vals {
				v, err := strconv.ParseFloat(record[base+c], 64)
				if err != nil {
					return nil, fmt.Errorf("row %d body %s: %w", len(log.Samples)+1, bodies[b], err)
				}
				vals[c] = v
			}
			tick[b] = vals
		}
		log.Samples = append(log.Samples, tick)
	}
	return log, nil
}

func parseHeader(header []string) ([]string, error) {
	if (len(header)-1)%segmentWidth != 0 || header[len(header)-1] != "" {
		return nil, fmt.Errorf("%w: %d fields", ErrBadHeader, len(header))
	}

	n := (len(header) - 1) / segmentWidth
	bodies := make([]string, n)
	for b := 0; b < n; b++ {
		seg := header[b*segmentWidth : (b+1)*segmentWidth]
		for c, col := range telemetry.RowColumns {
			if seg[c+1] != col {
				return nil, fmt.Errorf("%w: body %d column %d is %q, want %q", ErrBadHeader, b, c, seg[c+1], col)
			}
		}
		bodies[b] = seg[0]
	}
	return bodies, nil
}

// Ticks is the number of complete rows.
func (l *RowLog) Ticks() int { return len(l.Samples) }

// BodyIndex returns the position of name in the header.
func (l *RowLog) BodyIndex(name string) (int, error) {
	for i, b := range l.Bodies {
		if b == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrUnknownBody, name)
}

// Series returns one column of one body across every tick.
func (l *RowLog) Series(body, column string) ([]float64, error) {
	b, err := l.BodyIndex(body)
	if err != nil {
		return nil, err
	}
	c := columnIndex(column)
	if c < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCol, column)
	}

	out := make([]float64, len(l.Samples))
	for i, tick := range l.Samples {
		out[i] = tick[b][c]
	}
	return out, nil
}

// Velocities returns the linear velocity of every body at tick.
func (l *RowLog) Velocities(tick int) []dynamo.Vec3 {
	vx := columnIndex("v_x")
	out := make([]dynamo.Vec3, len(l.Bodies))
	for b, vals := range l.Samples[tick] {
		out[b] = dynamo.V(vals[vx], vals[vx+1], vals[vx+2])
	}
	return out
}

func columnIndex(column string) int {
	for i, c := range telemetry.RowColumns {
		if c == column {
			return i
		}
	}
	return -1
}
