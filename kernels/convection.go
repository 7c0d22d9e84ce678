package kernels

import (
	"github.com/notargets/teal/types"
)

// NewHeatConvection builds the interphase exchange term
//
//	Res = test * h * A * fv * (T - T_other)
//
// with h the heat transfer coefficient (W/m^2/K) and A the specific area of
// the phase (m^-1)
func NewHeatConvection(coeff, otherTemp, volfrac, specArea Coupled) *QpKernel {
	return NewQpKernel(types.Kernel_Convection.String(), QpFunctions{
		Residual: func(q *Qp) float64 {
			return q.Test() * q.Value(coeff) * q.Value(specArea) * q.Value(volfrac) *
				(q.U() - q.Value(otherTemp))
		},
		Jacobian: func(q *Qp) float64 {
			return q.Test() * q.Value(coeff) * q.Value(specArea) * q.Value(volfrac) * q.Phi()
		},
		OffDiag: func(q *Qp, jvar VarID) float64 {
			var (
				h, A, fv = q.Value(coeff), q.Value(specArea), q.Value(volfrac)
				dT       = q.U() - q.Value(otherTemp)
			)
			switch {
			case otherTemp.Is(jvar):
				return -q.Test() * h * A * fv * q.Phi()
			case coeff.Is(jvar):
				return q.Test() * q.Phi() * A * fv * dT
			case volfrac.Is(jvar):
				return q.Test() * h * A * q.Phi() * dT
			case specArea.Is(jvar):
				return q.Test() * h * q.Phi() * fv * dT
			}
			return 0
		},
	}, coeff, otherTemp, volfrac, specArea)
}
