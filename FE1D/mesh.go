package FE1D

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/kernels"
)

// Face is a boundary point of the mesh
type Face struct {
	Elem   int     // owning element
	Node   int     // global node on the boundary
	Local  int     // local index of Node within Elem
	R      float64 // reference coordinate of the face, -1 or 1
	Normal r3.Vec  // outward unit normal
}

// Mesh1D is a continuous Lagrange discretization of [x0,x1] with K equal
// elements. Local nodes are ordered left to right, so element k owns global
// nodes k*Order through (k+1)*Order.
type Mesh1D struct {
	K, Order, Np, NNodes int
	VX                   []float64 // element vertices, K+1
	X                    []float64 // global node coordinates
	EToN                 [][]int   // element to global nodes
	Faces                []Face

	R      []float64   // reference nodes
	RQ, WQ []float64   // reference quadrature
	shape  [][]float64 // [i][qp]
	dshape [][]float64 // [i][qp], d/dr
}

func NewMesh1D(x0, x1 float64, K, order int) (m *Mesh1D, err error) {
	if order < 1 || order > 2 {
		err = fmt.Errorf("unsupported element order %d, must be 1 or 2", order)
		return
	}
	if K < 1 || x1 <= x0 {
		err = fmt.Errorf("invalid mesh: K = %d on [%v,%v]", K, x0, x1)
		return
	}
	m = &Mesh1D{
		K:      K,
		Order:  order,
		Np:     order + 1,
		NNodes: K*order + 1,
		VX:     make([]float64, K+1),
		EToN:   make([][]int, K),
	}
	h := (x1 - x0) / float64(K)
	for k := 0; k <= K; k++ {
		m.VX[k] = x0 + float64(k)*h
	}
	m.VX[K] = x1
	m.R = make([]float64, m.Np)
	for i := range m.R {
		m.R[i] = -1 + 2*float64(i)/float64(order)
	}
	m.X = make([]float64, m.NNodes)
	for k := 0; k < K; k++ {
		m.EToN[k] = make([]int, m.Np)
		for i := 0; i < m.Np; i++ {
			n := k*order + i
			m.EToN[k][i] = n
			m.X[n] = m.mapToPhysical(k, m.R[i])
		}
	}
	m.Faces = []Face{
		{Elem: 0, Node: 0, Local: 0, R: -1, Normal: r3.Vec{X: -1}},
		{Elem: K - 1, Node: m.NNodes - 1, Local: m.Np - 1, R: 1, Normal: r3.Vec{X: 1}},
	}
	// Gauss quadrature exact to degree 2*order+1
	m.RQ, m.WQ = JacobiGQ(0, 0, order)
	m.shape = make([][]float64, m.Np)
	m.dshape = make([][]float64, m.Np)
	for i := range m.shape {
		m.shape[i] = make([]float64, len(m.RQ))
		m.dshape[i] = make([]float64, len(m.RQ))
	}
	for qp, r := range m.RQ {
		l, dl := Lagrange(m.R, r)
		for i := range l {
			m.shape[i][qp], m.dshape[i][qp] = l[i], dl[i]
		}
	}
	return
}

func (m *Mesh1D) mapToPhysical(k int, r float64) float64 {
	return m.VX[k] + (r+1)/2*(m.VX[k+1]-m.VX[k])
}

// Reinit returns the element k ready to be visited by a volumetric kernel.
// Only the geometry is filled, the variable and its fields are set by the
// caller.
func (m *Mesh1D) Reinit(k int) (el *kernels.Element) {
	var (
		h   = m.VX[k+1] - m.VX[k]
		nqp = len(m.RQ)
	)
	el = &kernels.Element{
		Test:     m.shape,
		Phi:      m.shape,
		GradTest: make([][]r3.Vec, m.Np),
		JxW:      make([]float64, nqp),
		Nodes:    m.EToN[k],
	}
	for i := 0; i < m.Np; i++ {
		el.GradTest[i] = make([]r3.Vec, nqp)
		for qp := 0; qp < nqp; qp++ {
			el.GradTest[i][qp] = r3.Vec{X: m.dshape[i][qp] * 2 / h}
		}
	}
	el.GradPhi = el.GradTest
	for qp := range el.JxW {
		el.JxW[qp] = m.WQ[qp] * h / 2
	}
	return
}

// ReinitFace returns the owning element of f restricted to the face point
func (m *Mesh1D) ReinitFace(f Face) (el *kernels.Element) {
	var (
		k    = f.Elem
		h    = m.VX[k+1] - m.VX[k]
		l, d = Lagrange(m.R, f.R)
	)
	el = &kernels.Element{
		Test:     make([][]float64, m.Np),
		GradTest: make([][]r3.Vec, m.Np),
		JxW:      []float64{1},
		Normals:  []r3.Vec{f.Normal},
		Nodes:    m.EToN[k],
	}
	for i := 0; i < m.Np; i++ {
		el.Test[i] = []float64{l[i]}
		el.GradTest[i] = []r3.Vec{{X: d[i] * 2 / h}}
	}
	el.Phi, el.GradPhi = el.Test, el.GradTest
	return
}
