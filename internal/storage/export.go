package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rigidlog/internal/telemetry"
)

// ExportData is a column-oriented view of a row log.
type ExportData struct {
	Source  string                          `json:"source"`
	Ticks   int                             `json:"ticks"`
	Columns []string                        `json:"columns"`
	Bodies  map[string]map[string][]float64 `json:"bodies"`
}

func newExportData(log *RowLog) ExportData {
	data := ExportData{
		Source:  log.Path,
		Ticks:   log.Ticks(),
		Columns: telemetry.RowColumns,
		Bodies:  make(map[string]map[string][]float64, len(log.Bodies)),
	}

	for b, name := range log.Bodies {
		cols := make(map[string][]float64, len(telemetry.RowColumns))
		for c, col := range telemetry.RowColumns {
			series := make([]float64, len(log.Samples))
			for i, tick := range log.Samples {
				series[i] = tick[b][c]
			}
			cols[col] = series
		}
		data.Bodies[name] = cols
	}
	return data
}

// ExportJSON writes log to path as indented JSON.
func ExportJSON(path string, log *RowLog) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, log)
}

// WriteJSON writes log to w as indented JSON.
func WriteJSON(w io.Writer, log *RowLog) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(log))
}
