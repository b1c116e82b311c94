package formatter

import (
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// MatrixOptions controls how WriteMatrix labels and trims a matrix.
type MatrixOptions struct {
	// Corner is the header of the label column, e.g. "cause\\effect".
	Corner string

	// Rows and Cols limit the rendered block; 0 renders everything.
	Rows int
	Cols int

	// Precision is the decimals per cell; 0 means DefaultPrecision.
	Precision int
}

// WriteMatrix renders m as a table with row and column indices as labels.
func WriteMatrix(w io.Writer, m mat.Matrix, opts MatrixOptions) error {
	r, c := m.Dims()
	if opts.Rows > 0 && opts.Rows < r {
		r = opts.Rows
	}
	if opts.Cols > 0 && opts.Cols < c {
		c = opts.Cols
	}
	if opts.Precision == 0 {
		opts.Precision = DefaultPrecision
	}

	headers := make([]string, 0, c+1)
	headers = append(headers, opts.Corner)
	for j := 0; j < c; j++ {
		headers = append(headers, strconv.Itoa(j))
	}

	tbl := NewTable(w, headers...).SetPrecision(opts.Precision)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		tbl.AddFloatRow(strconv.Itoa(i), row...)
	}
	return tbl.Render()
}

// WriteVectors renders named vectors of equal meaning side by side, one row
// per index. Shorter vectors leave blank cells.
func WriteVectors(w io.Writer, names []string, vectors [][]float64, precision int) error {
	if precision == 0 {
		precision = DefaultPrecision
	}
	headers := append([]string{"feature"}, names...)
	tbl := NewTable(w, headers...)

	n := 0
	for _, v := range vectors {
		if len(v) > n {
			n = len(v)
		}
	}
	for i := 0; i < n; i++ {
		cells := make([]string, 0, len(vectors)+1)
		cells = append(cells, strconv.Itoa(i))
		for _, v := range vectors {
			if i < len(v) {
				cells = append(cells, FormatFloat(v[i], precision))
			} else {
				cells = append(cells, "")
			}
		}
		tbl.AddRow(cells...)
	}
	return tbl.Render()
}
