package kernels

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/types"
)

// HeatAdvectionConservative is the conservative advection term, whose weak
// form is
//
//	Res = -grad(test) . v * rho * cp * fv * T
//
// With full upwinding the nodal residuals are replaced by a donor cell
// scheme: nodes with a positive outflux carry their own value downstream and
// the total mass leaving the element is redistributed onto the inflow nodes
// in proportion to their influx, so no mass is created inside the element.
type HeatAdvectionConservative struct {
	Density, HeatCap, VolFrac Coupled
	VelX, VelY, VelZ          Coupled
	Upwinding                 types.UpwindingType
	Save                      *SaveIns

	pointwise *QpKernel
	scheme    advectionScheme
}

// advectionScheme is selected once, when the kernel is built
type advectionScheme interface {
	residual(el *Element) []float64
	jacobian(el *Element) *mat.Dense
}

func NewHeatAdvectionConservative(density, heatCap, volfrac, vx, vy, vz Coupled,
	upwinding types.UpwindingType) (hac *HeatAdvectionConservative) {
	hac = &HeatAdvectionConservative{
		Density:   density,
		HeatCap:   heatCap,
		VolFrac:   volfrac,
		VelX:      vx,
		VelY:      vy,
		VelZ:      vz,
		Upwinding: upwinding,
	}
	hac.pointwise = NewQpKernel(types.Kernel_Advection.String(), QpFunctions{
		Residual: func(q *Qp) float64 { return hac.negSpeed(q) * q.U() },
		Jacobian: func(q *Qp) float64 { return hac.negSpeed(q) * q.Phi() },
		OffDiag:  hac.offDiag,
	}, density, heatCap, volfrac, vx, vy, vz)
	hac.Save = hac.pointwise.Save
	switch upwinding {
	case types.Upwind_Full:
		hac.scheme = fullUpwind{hac}
	default:
		hac.scheme = noUpwind{hac.pointwise}
	}
	return
}

func (hac *HeatAdvectionConservative) Name() string { return hac.pointwise.Name() }

func (hac *HeatAdvectionConservative) Storage() *SaveIns { return hac.Save }

func (hac *HeatAdvectionConservative) CoupledVars() []VarID { return hac.pointwise.CoupledVars() }

func (hac *HeatAdvectionConservative) ComputeResidual(el *Element) []float64 {
	return hac.scheme.residual(el)
}

func (hac *HeatAdvectionConservative) ComputeJacobian(el *Element) *mat.Dense {
	return hac.scheme.jacobian(el)
}

// ComputeOffDiagJacobian uses the non-upwinded form for both schemes
func (hac *HeatAdvectionConservative) ComputeOffDiagJacobian(el *Element, jvar VarID) *mat.Dense {
	return hac.pointwise.ComputeOffDiagJacobian(el, jvar)
}

// QpFunctions exposes the non-upwinded pointwise form
func (hac *HeatAdvectionConservative) QpFunctions() QpFunctions { return hac.pointwise.QpFunctions }

// negSpeed is -grad(test_i) . v * rho * cp * fv at the current point
func (hac *HeatAdvectionConservative) negSpeed(q *Qp) float64 {
	vel := q.Velocity(hac.VelX, hac.VelY, hac.VelZ)
	return -r3.Dot(q.GradTest(), vel) * hac.rhoCpFv(q)
}

func (hac *HeatAdvectionConservative) rhoCpFv(q *Qp) float64 {
	return q.Value(hac.Density) * q.Value(hac.HeatCap) * q.Value(hac.VolFrac)
}

func (hac *HeatAdvectionConservative) offDiag(q *Qp, jvar VarID) float64 {
	var (
		vel = q.Velocity(hac.VelX, hac.VelY, hac.VelZ)
		gt  = q.GradTest()
		u   = q.U()
		rho = q.Value(hac.Density)
		cp  = q.Value(hac.HeatCap)
		fv  = q.Value(hac.VolFrac)
	)
	switch {
	case hac.VelX.Is(jvar):
		return -u * q.Phi() * gt.X * rho * cp * fv
	case hac.VelY.Is(jvar):
		return -u * q.Phi() * gt.Y * rho * cp * fv
	case hac.VelZ.Is(jvar):
		return -u * q.Phi() * gt.Z * rho * cp * fv
	case hac.Density.Is(jvar):
		return -u * r3.Dot(gt, vel) * q.Phi() * cp * fv
	case hac.HeatCap.Is(jvar):
		return -u * r3.Dot(gt, vel) * rho * q.Phi() * fv
	case hac.VolFrac.Is(jvar):
		return -u * r3.Dot(gt, vel) * rho * cp * q.Phi()
	}
	return 0
}

// Classify integrates the raw nodal outflux of every test function and marks
// the nodes with a non-negative outflux as upwind (outflow) nodes
func (hac *HeatAdvectionConservative) Classify(el *Element) (rawFlux []float64, outflow []bool) {
	var (
		q      = Qp{El: el}
		nNodes = el.NTest()
	)
	rawFlux = make([]float64, nNodes)
	outflow = make([]bool, nNodes)
	for q.I = 0; q.I < nNodes; q.I++ {
		for q.QP = 0; q.QP < el.NQp(); q.QP++ {
			rawFlux[q.I] += el.weight(q.QP) * hac.negSpeed(&q)
		}
		outflow[q.I] = rawFlux[q.I] >= 0
	}
	return
}

type noUpwind struct {
	k *QpKernel
}

func (nu noUpwind) residual(el *Element) []float64  { return nu.k.ComputeResidual(el) }
func (nu noUpwind) jacobian(el *Element) *mat.Dense { return nu.k.ComputeJacobian(el) }

type fullUpwind struct {
	hac *HeatAdvectionConservative
}

type jacRes uint8

const (
	calculateResidual jacRes = iota
	calculateJacobian
)

func (fu fullUpwind) residual(el *Element) []float64 {
	re, _ := fu.upwind(el, calculateResidual)
	fu.hac.Save.residual(el, re)
	return re
}

func (fu fullUpwind) jacobian(el *Element) *mat.Dense {
	_, ke := fu.upwind(el, calculateJacobian)
	fu.hac.Save.diagonal(el, ke)
	return ke
}

func (fu fullUpwind) upwind(el *Element, resOrJac jacRes) (re []float64, ke *mat.Dense) {
	var (
		nNodes       = el.NTest()
		nPhi         = el.NPhi()
		outflow      []bool
		totalMassOut float64
		totalIn      float64
		dMassOut     []float64
	)
	// The outflux is needed for the Jacobian too, it decides which nodes are upwind
	re, outflow = fu.hac.Classify(el)

	if resOrJac == calculateJacobian {
		ke = mat.NewDense(nNodes, nPhi, nil)
		dMassOut = make([]float64, nNodes)
	}
	for n := 0; n < nNodes; n++ {
		if outflow[n] {
			if resOrJac == calculateJacobian && nNodes == nPhi {
				// The nodal value at n depends only on dof n for nodal
				// (Lagrange) shapes. Other families (constant monomials)
				// have no such diagonal and are skipped.
				ke.Set(n, n, ke.At(n, n)+re[n])
				dMassOut[n] = re[n]
			}
			re[n] *= el.UNodal[n]
			totalMassOut += re[n]
		} else {
			totalIn -= re[n] // positive
		}
	}

	// A pure outflow element has nothing to redistribute
	if totalIn == 0 {
		return
	}
	for n := 0; n < nNodes; n++ {
		if outflow[n] {
			continue
		}
		if resOrJac == calculateJacobian {
			for j := 0; j < min(nPhi, nNodes); j++ {
				ke.Set(n, j, ke.At(n, j)+re[n]*dMassOut[j]/totalIn)
			}
		}
		re[n] *= totalMassOut / totalIn
	}
	return
}
