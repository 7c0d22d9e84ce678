package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary of keys sparse matrix used to accumulate a global
// Jacobian from element contributions
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// AddAt accumulates val into entry (i,j)
func (m DOK) AddAt(i, j int, val float64) {
	m.checkWritable()
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// AddBlock accumulates the local matrix ke into the rows and columns given
// by the global equation numbers
func (m DOK) AddBlock(rows, cols []int, ke mat.Matrix) {
	nr, nc := ke.Dims()
	if nr != len(rows) || nc != len(cols) {
		panic(fmt.Errorf("block dimensions mismatch: %dx%d into %dx%d", nr, nc, len(rows), len(cols)))
	}
	for i, I := range rows {
		for j, J := range cols {
			m.AddAt(I, J, ke.At(i, j))
		}
	}
}

// Merge accumulates every stored entry of B into the receiver
func (m DOK) Merge(B DOK) {
	B.M.DoNonZero(func(i, j int, v float64) {
		m.AddAt(i, j, v)
	})
}

func (m DOK) ToDense() *mat.Dense { return m.M.ToDense() }

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}
