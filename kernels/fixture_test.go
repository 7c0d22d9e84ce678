package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

// quadFixture is a bilinear quadrilateral on [0,a]x[0,b] with 2x2 Gauss
// points, or its x=a edge when face is set. Nodes are numbered
// counterclockwise from the origin.
type quadFixture struct {
	a, b    float64
	face    bool
	u, uOld []float64
	dt      float64
	nodal   map[string][]float64
}

func newQuadFixture() *quadFixture {
	return &quadFixture{
		a:    0.5,
		b:    0.25,
		u:    []float64{310, 325, 340, 300},
		uOld: []float64{305, 320, 338, 301},
		dt:   0.1,
		nodal: map[string][]float64{
			"density":              {1.10, 1.05, 0.98, 1.20},
			"heat_capacity":        {1005, 1010, 1020, 1000},
			"volume_frac":          {0.40, 0.45, 0.38, 0.42},
			"vel_x":                {1.50, 1.80, 1.20, 1.65},
			"vel_y":                {0.30, -0.25, 0.15, 0.35},
			"vel_z":                {0, 0, 0, 0},
			"thermal_conductivity": {0.025, 0.03, 0.028, 0.026},
			"convection_coeff":     {12, 15, 9, 11},
			"coupled_temperature":  {290, 295, 305, 288},
			"specific_area":        {150, 140, 160, 155},
			"coupled_source":       {1.e3, 2.e3, 1.5e3, 0.5e3},
			"outside_temperature":  {280, 280, 285, 285},
		},
	}
}

var fieldIDs = map[string]VarID{
	"density":              1,
	"heat_capacity":        2,
	"volume_frac":          3,
	"vel_x":                4,
	"vel_y":                5,
	"vel_z":                6,
	"thermal_conductivity": 7,
	"convection_coeff":     8,
	"coupled_temperature":  9,
	"specific_area":        10,
	"coupled_source":       11,
	"outside_temperature":  12,
}

func fxVar(name string) Coupled { return Variable(name, fieldIDs[name]) }

func fxParams() (p Params) {
	p.Coupled = make(map[string]Coupled)
	for name := range fieldIDs {
		p.Coupled[name] = fxVar(name)
	}
	return
}

type nodalFields struct {
	phi   [][]float64
	nodal map[string][]float64
}

func (nf *nodalFields) Value(c Coupled) (v []float64) {
	var (
		nd = nf.nodal[c.Name]
	)
	v = make([]float64, len(nf.phi[0]))
	for j := range nf.phi {
		for qp := range v {
			v[qp] += nd[j] * nf.phi[j][qp]
		}
	}
	return
}

func (fx *quadFixture) element() (el *Element) {
	var (
		g      = 1. / math.Sqrt(3)
		xi, et []float64
		wts    []float64
		sx     = [4]float64{-1, 1, 1, -1}
		sy     = [4]float64{-1, -1, 1, 1}
	)
	if fx.face {
		xi, et = []float64{1, 1}, []float64{-g, g}
		wts = []float64{fx.b / 2, fx.b / 2}
	} else {
		xi, et = []float64{-g, g, -g, g}, []float64{-g, -g, g, g}
		jac := fx.a / 2 * fx.b / 2
		wts = []float64{jac, jac, jac, jac}
	}
	nqp := len(wts)
	el = &Element{
		Test:     make([][]float64, 4),
		GradTest: make([][]r3.Vec, 4),
		JxW:      wts,
		U:        make([]float64, nqp),
		UDot:     make([]float64, nqp),
		GradU:    make([]r3.Vec, nqp),
		DUDotDU:  1 / fx.dt,
		UNodal:   append([]float64(nil), fx.u...),
		Dofs:     []int{0, 1, 2, 3},
		Nodes:    []int{0, 1, 2, 3},
	}
	for i := 0; i < 4; i++ {
		el.Test[i] = make([]float64, nqp)
		el.GradTest[i] = make([]r3.Vec, nqp)
		for qp := 0; qp < nqp; qp++ {
			el.Test[i][qp] = (1 + sx[i]*xi[qp]) * (1 + sy[i]*et[qp]) / 4
			el.GradTest[i][qp] = r3.Vec{
				X: sx[i] * (1 + sy[i]*et[qp]) / 4 * 2 / fx.a,
				Y: sy[i] * (1 + sx[i]*xi[qp]) / 4 * 2 / fx.b,
			}
			el.U[qp] += fx.u[i] * el.Test[i][qp]
			el.UDot[qp] += (fx.u[i] - fx.uOld[i]) / fx.dt * el.Test[i][qp]
			el.GradU[qp] = r3.Add(el.GradU[qp], r3.Scale(fx.u[i], el.GradTest[i][qp]))
		}
	}
	el.Phi, el.GradPhi = el.Test, el.GradTest
	if fx.face {
		el.Normals = []r3.Vec{{X: 1}, {X: 1}}
	}
	el.Fields = &nodalFields{phi: el.Phi, nodal: fx.nodal}
	return
}

// fdJacobian returns the central difference derivative of the residual of k
// with respect to the nodal values of field (the kernel variable when empty)
func fdJacobian(k Kernel, fx *quadFixture, field string) (fd [][]float64) {
	var (
		vals = fx.u
	)
	if len(field) != 0 {
		vals = fx.nodal[field]
	}
	fd = make([][]float64, 4)
	for i := range fd {
		fd[i] = make([]float64, len(vals))
	}
	for j := range vals {
		v0 := vals[j]
		h := 1.e-6 * math.Max(1, math.Abs(v0))
		vals[j] = v0 + h
		rp := k.ComputeResidual(fx.element())
		vals[j] = v0 - h
		rm := k.ComputeResidual(fx.element())
		vals[j] = v0
		for i := range rp {
			fd[i][j] = (rp[i] - rm[i]) / (2 * h)
		}
	}
	return
}

func checkJacobian(t *testing.T, k Kernel, fx *quadFixture, field string) {
	t.Helper()
	var (
		el    = fx.element()
		ke    = k.ComputeJacobian(el)
		fd    = fdJacobian(k, fx, field)
		scale = 1.
	)
	if len(field) != 0 {
		ke = k.ComputeOffDiagJacobian(el, fieldIDs[field])
	}
	for i := range fd {
		for j := range fd[i] {
			scale = math.Max(scale, math.Abs(fd[i][j]))
		}
	}
	for i := range fd {
		for j := range fd[i] {
			assert.InDeltaf(t, fd[i][j], ke.At(i, j), 1.e-6*scale,
				"%s d/d(%s) [%d,%d]", k.Name(), field, i, j)
		}
	}
}
