package kernels

import (
	"github.com/notargets/teal/types"
)

// CoefTimeDerivative is a time derivative weighted by a coefficient that is
// recomputed at every quadrature point
//
//	Res = coef * test * dT/dt
type CoefTimeDerivative struct {
	Coef func(q *Qp) float64
}

func (ctd CoefTimeDerivative) Residual(q *Qp) float64 {
	return ctd.Coef(q) * q.Test() * q.UDot()
}

func (ctd CoefTimeDerivative) Jacobian(q *Qp) float64 {
	return ctd.Coef(q) * q.Test() * q.Phi() * q.DUDotDU()
}

// NewHeatAccumulation builds the thermal inertia term
//
//	Res = test * fv * rho * cp * dT/dt
func NewHeatAccumulation(density, heatCap, volfrac Coupled) *QpKernel {
	var (
		ctd = CoefTimeDerivative{
			Coef: func(q *Qp) float64 {
				return q.Value(density) * q.Value(heatCap) * q.Value(volfrac)
			},
		}
	)
	return NewQpKernel(types.Kernel_Accumulation.String(), QpFunctions{
		Residual: ctd.Residual,
		Jacobian: ctd.Jacobian,
		OffDiag: func(q *Qp, jvar VarID) float64 {
			var (
				rho, cp, fv = q.Value(density), q.Value(heatCap), q.Value(volfrac)
				tu          = q.Test() * q.UDot()
			)
			switch {
			case density.Is(jvar):
				return q.Phi() * cp * fv * tu
			case heatCap.Is(jvar):
				return rho * q.Phi() * fv * tu
			case volfrac.Is(jvar):
				return rho * cp * q.Phi() * tu
			}
			return 0
		},
	}, density, heatCap, volfrac)
}
