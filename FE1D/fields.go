package FE1D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/kernels"
)

// NodalField holds one value per global mesh node
type NodalField []float64

// NewNodalField samples f at the mesh nodes
func (m *Mesh1D) NewNodalField(f func(x float64) float64) (nf NodalField) {
	nf = make(NodalField, m.NNodes)
	for n, x := range m.X {
		nf[n] = f(x)
	}
	return
}

func (m *Mesh1D) ConstantField(val float64) NodalField {
	return m.NewNodalField(func(float64) float64 { return val })
}

// Extract returns the values at nodes, in the given order
func (nf NodalField) Extract(nodes []int) (v []float64) {
	v = make([]float64, len(nodes))
	for i, n := range nodes {
		v[i] = nf[n]
	}
	return
}

// Interpolate evaluates the field and its gradient at the quadrature points
// of el
func (nf NodalField) Interpolate(el *kernels.Element) (u []float64, gradU []r3.Vec) {
	var (
		nqp = el.NQp()
	)
	u, gradU = make([]float64, nqp), make([]r3.Vec, nqp)
	for j, n := range el.Nodes {
		for qp := 0; qp < nqp; qp++ {
			u[qp] += nf[n] * el.Phi[j][qp]
			gradU[qp] = r3.Add(gradU[qp], r3.Scale(nf[n], el.GradPhi[j][qp]))
		}
	}
	return
}

// FieldSet names the nodal fields a set of kernels can couple to
type FieldSet map[string]NodalField

// Bind returns the accessor for the fields of fs on el
func (fs FieldSet) Bind(el *kernels.Element) *Fields {
	return &Fields{set: fs, el: el}
}

// Fields resolves coupled fields on one element, it implements
// kernels.FieldAccessor
type Fields struct {
	set FieldSet
	el  *kernels.Element
}

func (f *Fields) field(c kernels.Coupled) NodalField {
	nf, ok := f.set[c.Name]
	if !ok {
		panic(fmt.Errorf("unknown coupled field %q", c.Name))
	}
	return nf
}

func (f *Fields) Value(c kernels.Coupled) (v []float64) {
	v, _ = f.field(c).Interpolate(f.el)
	return
}
