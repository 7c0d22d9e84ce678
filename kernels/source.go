package kernels

import (
	"github.com/notargets/teal/types"
)

// NewHeatSource builds Res = -test * Q for a coupled volumetric source Q (W/m^3)
func NewHeatSource(source Coupled) *QpKernel {
	return NewQpKernel(types.Kernel_Source.String(), QpFunctions{
		Residual: func(q *Qp) float64 {
			return -q.Test() * q.Value(source)
		},
		Jacobian: func(q *Qp) float64 { return 0 },
		OffDiag: func(q *Qp, jvar VarID) float64 {
			if source.Is(jvar) {
				return -q.Test() * q.Phi()
			}
			return 0
		},
	}, source)
}
