package kernels

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/types"
)

// NewThermalFluidFluxBC builds the advective energy flux through a boundary
//
//	Res = test * (v . n) * T_b * rho * cp * fv
//
// where T_b is the interior temperature when v . n > 0 (outflow) and the
// supplied outside temperature otherwise. The branch is evaluated on every
// call from the current iterate.
func NewThermalFluidFluxBC(density, heatCap, volfrac, vx, vy, vz, outsideTemp Coupled) *QpKernel {
	normalSpeed := func(q *Qp) float64 {
		return r3.Dot(q.Velocity(vx, vy, vz), q.Normal())
	}
	rhoCpFv := func(q *Qp) float64 {
		return q.Value(density) * q.Value(heatCap) * q.Value(volfrac)
	}
	// boundary temperature for the current branch
	tBoundary := func(q *Qp, vn float64) float64 {
		if vn > 0 {
			return q.U()
		}
		return q.Value(outsideTemp)
	}
	return NewQpKernel(types.BC_ThermalFluidFlux.String(), QpFunctions{
		Residual: func(q *Qp) float64 {
			vn := normalSpeed(q)
			return q.Test() * vn * tBoundary(q, vn) * rhoCpFv(q)
		},
		Jacobian: func(q *Qp) float64 {
			vn := normalSpeed(q)
			if vn > 0 {
				return q.Test() * vn * q.Phi() * rhoCpFv(q)
			}
			// The inflow value does not depend on the interior unknown
			return 0
		},
		OffDiag: func(q *Qp, jvar VarID) float64 {
			var (
				vn  = normalSpeed(q)
				tb  = tBoundary(q, vn)
				n   = q.Normal()
				rho = q.Value(density)
				cp  = q.Value(heatCap)
				fv  = q.Value(volfrac)
			)
			switch {
			case vx.Is(jvar):
				return q.Test() * tb * q.Phi() * n.X * rho * cp * fv
			case vy.Is(jvar):
				return q.Test() * tb * q.Phi() * n.Y * rho * cp * fv
			case vz.Is(jvar):
				return q.Test() * tb * q.Phi() * n.Z * rho * cp * fv
			case density.Is(jvar):
				return q.Test() * vn * tb * q.Phi() * cp * fv
			case heatCap.Is(jvar):
				return q.Test() * vn * tb * rho * q.Phi() * fv
			case volfrac.Is(jvar):
				return q.Test() * vn * tb * rho * cp * q.Phi()
			case outsideTemp.Is(jvar):
				if vn > 0 {
					return 0
				}
				return q.Test() * vn * q.Phi() * rho * cp * fv
			}
			return 0
		},
	}, density, heatCap, volfrac, vx, vy, vz, outsideTemp)
}
