// Package export writes run results to files: the history as JSON lines and
// grids as CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"dla/growth"
	"dla/model"
)

// Record 历史中一步对应的一行
type Record struct {
	Step             int          `json:"step"`
	Cell             model.Cell   `json:"cell"`
	SolverIterations int          `json:"solver_iterations"`
	Residual         float64      `json:"residual"`
	Omega            float64      `json:"omega"`
	Aggregate        []model.Cell `json:"aggregate"`
	Field            []float64    `json:"field,omitempty"`
}

func newRecord(s growth.Snapshot, withField bool) Record {
	r := Record{
		Step:             s.Step,
		Cell:             s.Cell,
		SolverIterations: s.SolverIterations,
		Residual:         s.Residual,
		Omega:            s.Omega,
		Aggregate:        Cells(s.Aggregate),
	}
	if withField {
		r.Field = s.Field.Data
	}
	return r
}

// Cells lists the stuck cells of g in row-major order.
func Cells(g *model.Grid) []model.Cell {
	res := make([]model.Cell, 0, g.Count())
	for i := 0; i < g.N; i++ {
		for j := 0; j < g.N; j++ {
			if g.Has(i, j) {
				res = append(res, model.Cell{Row: i, Col: j})
			}
		}
	}
	return res
}

// WriteHistory writes one JSON object per retained snapshot, oldest first.
func WriteHistory(w io.Writer, h *growth.History, withField bool) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	var err error
	h.Snapshots.Traverse(func(_ int, s growth.Snapshot) {
		if err != nil {
			return
		}
		if e := enc.Encode(newRecord(s, withField)); e != nil {
			err = fmt.Errorf("step %d: %w", s.Step, e)
		}
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ReadHistory reads records written by WriteHistory.
func ReadHistory(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	var res []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err == io.EOF {
			return res, nil
		} else if err != nil {
			return res, err
		}
		res = append(res, rec)
	}
}

// WriteFieldCSV writes one CSV row per grid row.
func WriteFieldCSV(w io.Writer, f *model.Field) error {
	cw := csv.NewWriter(w)
	row := make([]string, f.N)
	for i := 0; i < f.N; i++ {
		for j, v := range f.Row(i) {
			row[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGridCSV writes an aggregate as rows of 0 and 1.
func WriteGridCSV(w io.Writer, g *model.Grid) error {
	f := model.NewField(g.N)
	for k, v := range g.Cells {
		if v {
			f.Data[k] = 1
		}
	}
	return WriteFieldCSV(w, f)
}

// ReadFieldCSV reads a square grid written by WriteFieldCSV.
func ReadFieldCSV(r io.Reader) (*model.Field, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	n := len(rows)
	f := model.NewField(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), n)
		}
		for j, s := range row {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i, j, err)
			}
			f.Set(i, j, v)
		}
	}
	return f, nil
}

// SaveHistory writes the history to path.
func SaveHistory(path string, h *growth.History, withField bool) error {
	return save(path, func(w io.Writer) error { return WriteHistory(w, h, withField) })
}

// SaveFieldCSV writes f to path.
func SaveFieldCSV(path string, f *model.Field) error {
	return save(path, func(w io.Writer) error { return WriteFieldCSV(w, f) })
}

// SaveGridCSV writes g to path.
func SaveGridCSV(path string, g *model.Grid) error {
	return save(path, func(w io.Writer) error { return WriteGridCSV(w, g) })
}

func save(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	log.WithField("path", path).Info("exported")
	return nil
}
