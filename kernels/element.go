package kernels

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// VarID routes off-diagonal Jacobian contributions to the columns of a
// solved variable. Auxiliary fields and constants carry NoVar.
type VarID int

const NoVar VarID = -1

// Coupled names a scalar field coupled into a kernel. An unnamed Coupled is
// a constant and never produces off-diagonal entries.
type Coupled struct {
	Name  string
	Var   VarID
	Const float64
}

func Constant(val float64) Coupled          { return Coupled{Var: NoVar, Const: val} }
func Aux(name string) Coupled               { return Coupled{Name: name, Var: NoVar} }
func Variable(name string, v VarID) Coupled { return Coupled{Name: name, Var: v} }

func (c Coupled) IsConstant() bool { return len(c.Name) == 0 }

// Is reports whether jvar addresses this coupled field
func (c Coupled) Is(jvar VarID) bool { return c.Var != NoVar && c.Var == jvar }

// FieldAccessor resolves coupled fields on the element currently visited.
// Value returns one entry per quadrature point.
type FieldAccessor interface {
	Value(c Coupled) []float64
}

// Element holds everything a kernel reads while visiting one element (or one
// boundary face). The host fills it, kernels never write to it.
type Element struct {
	Test, Phi         [][]float64 // [i][qp]
	GradTest, GradPhi [][]r3.Vec  // [i][qp]
	JxW, Coord        []float64   // [qp], a nil Coord means cartesian (1)
	Normals           []r3.Vec    // [qp], boundary faces only

	// The kernel variable
	U, UDot []float64 // [qp]
	GradU   []r3.Vec  // [qp]
	DUDotDU float64   // d(udot)/du of the time integrator
	UNodal  []float64 // [i] dof values on the element
	Dofs    []int     // [i] global equation numbers
	Nodes   []int     // [i] global node numbers, used for save-in storage

	Fields FieldAccessor
}

func (el *Element) NTest() int { return len(el.Test) }
func (el *Element) NPhi() int  { return len(el.Phi) }
func (el *Element) NQp() int   { return len(el.JxW) }

func (el *Element) weight(qp int) float64 {
	if el.Coord == nil {
		return el.JxW[qp]
	}
	return el.JxW[qp] * el.Coord[qp]
}

// Qp is the (test, trial, quadrature point) cursor handed to the pointwise
// residual and Jacobian functions.
type Qp struct {
	I, J, QP int
	El       *Element
}

func (q *Qp) Test() float64    { return q.El.Test[q.I][q.QP] }
func (q *Qp) GradTest() r3.Vec { return q.El.GradTest[q.I][q.QP] }
func (q *Qp) Phi() float64     { return q.El.Phi[q.J][q.QP] }
func (q *Qp) GradPhi() r3.Vec  { return q.El.GradPhi[q.J][q.QP] }
func (q *Qp) U() float64       { return q.El.U[q.QP] }
func (q *Qp) GradU() r3.Vec    { return q.El.GradU[q.QP] }
func (q *Qp) UDot() float64    { return q.El.UDot[q.QP] }
func (q *Qp) DUDotDU() float64 { return q.El.DUDotDU }
func (q *Qp) Normal() r3.Vec   { return q.El.Normals[q.QP] }

// Value reads a coupled field at the current quadrature point
func (q *Qp) Value(c Coupled) float64 {
	if c.IsConstant() {
		return c.Const
	}
	return q.El.Fields.Value(c)[q.QP]
}

// Velocity assembles the velocity vector from its three coupled components
func (q *Qp) Velocity(vx, vy, vz Coupled) r3.Vec {
	return r3.Vec{X: q.Value(vx), Y: q.Value(vy), Z: q.Value(vz)}
}
