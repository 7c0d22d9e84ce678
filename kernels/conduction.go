package kernels

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/types"
)

// NewHeatConduction builds the diffusion term
//
//	Res = fv * k * grad(test) . grad(T)
//
// where fv is the volume fraction and k the thermal conductivity (W/m/K)
func NewHeatConduction(conductivity, volfrac Coupled) *QpKernel {
	return NewQpKernel(types.Kernel_Conduction.String(), QpFunctions{
		Residual: func(q *Qp) float64 {
			return q.Value(volfrac) * q.Value(conductivity) * r3.Dot(q.GradTest(), q.GradU())
		},
		Jacobian: func(q *Qp) float64 {
			return q.Value(volfrac) * q.Value(conductivity) * r3.Dot(q.GradTest(), q.GradPhi())
		},
		OffDiag: func(q *Qp, jvar VarID) float64 {
			switch {
			case conductivity.Is(jvar):
				return q.Value(volfrac) * q.Phi() * r3.Dot(q.GradTest(), q.GradU())
			case volfrac.Is(jvar):
				return q.Phi() * q.Value(conductivity) * r3.Dot(q.GradTest(), q.GradU())
			}
			return 0
		},
	}, conductivity, volfrac)
}
