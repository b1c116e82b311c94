package transition

import (
	"fmt"

	"github.com/boshu2/becca/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// Projections decodes flattened N*N transition maps into per-feature cause
// and effect indicators. Column k of each result corresponds to row k of
// mapProjections: causes[i,k] is the sign of the largest value in row i of
// map k, effects[j,k] the sign of the largest value in column j.
// The model is not modified.
func (m *Model) Projections(mapProjections [][]float64) (causes, effects *mat.Dense, err error) {
	if len(mapProjections) == 0 {
		return nil, nil, ErrNoProjections
	}
	n := m.capacity
	for k, row := range mapProjections {
		if len(row) != n*n {
			return nil, nil, fmt.Errorf("projection %d has %d values, want %d: %w", k, len(row), n*n, ErrShapeMismatch)
		}
	}

	causes = mat.NewDense(n, len(mapProjections), nil)
	effects = mat.NewDense(n, len(mapProjections), nil)
	for k, row := range mapProjections {
		transitions := mat.NewDense(n, n, row)
		for i := 0; i < n; i++ {
			causes.Set(i, k, numeric.Sign(maxOf(mat.Row(nil, i, transitions))))
			effects.Set(i, k, numeric.Sign(maxOf(mat.Col(nil, i, transitions))))
		}
	}
	return causes, effects, nil
}

func maxOf(v []float64) float64 {
	best := v[0]
	for _, x := range v[1:] {
		if x > best {
			best = x
		}
	}
	return best
}
