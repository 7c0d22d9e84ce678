package kernels

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/teal/types"
)

func fullUpwindKernel(t *testing.T, p Params) *HeatAdvectionConservative {
	p.Upwinding = types.Upwind_Full
	k, err := New(types.Kernel_Advection, p)
	require.NoError(t, err)
	return k.(*HeatAdvectionConservative)
}

func TestUpwindConservation(t *testing.T) {
	var (
		fx  = newQuadFixture()
		hac = fullUpwindKernel(t, fxParams())
		el  = fx.element()
	)
	{ // Test the classification is repeatable and has both kinds of node
		raw1, out1 := hac.Classify(el)
		raw2, out2 := hac.Classify(el)
		assert.Equal(t, raw1, raw2)
		assert.Equal(t, out1, out2)
		// Upstream nodes (x=0) donate, downstream nodes receive
		assert.True(t, out1[0])
		assert.False(t, out1[2])
		var sum, scale float64
		for _, r := range raw1 {
			sum += r
			scale += math.Abs(r)
		}
		// Lagrange gradients sum to zero
		assert.InDelta(t, 0., sum, 1.e-12*scale)
	}
	{ // Test upwinded residuals conserve the element mass flux
		raw, outflow := hac.Classify(el)
		re := hac.ComputeResidual(el)
		var sum, scale float64
		for n, r := range re {
			sum += r
			scale += math.Abs(r)
			if outflow[n] {
				assert.InDelta(t, raw[n]*fx.u[n], r, 1.e-9*math.Abs(r))
			}
		}
		assert.InDelta(t, 0., sum, 1.e-12*scale)
	}
	{ // Test the non-upwinded scheme is the pointwise form
		p := fxParams()
		k, err := New(types.Kernel_Advection, p)
		require.NoError(t, err)
		pw := NewQpKernel("pointwise", k.(*HeatAdvectionConservative).QpFunctions())
		assert.InDeltaSlice(t, pw.ComputeResidual(el), k.ComputeResidual(el), 1.e-12)
		assert.Equal(t, pw.ComputeJacobian(el).RawMatrix().Data,
			k.ComputeJacobian(el).RawMatrix().Data)
	}
}

func TestUpwindDegenerate(t *testing.T) {
	var (
		p = Params{Coupled: map[string]Coupled{
			"density":       Constant(1),
			"heat_capacity": Constant(1),
			"vel_x":         Constant(1),
			"vel_y":         Constant(0),
			"vel_z":         Constant(0),
		}}
	)
	{ // Test a single outflow node has nothing to redistribute
		hac := fullUpwindKernel(t, p)
		el := singlePoint(1, r3.Vec{X: -1})
		el.UNodal = []float64{350}
		re := hac.ComputeResidual(el)
		assert.Equal(t, []float64{350}, re)
		ke := hac.ComputeJacobian(el)
		assert.Equal(t, 1., ke.At(0, 0))
	}
	{ // Test zero velocity gives zero residual and Jacobian, not NaN
		p.Coupled["vel_x"] = Constant(0)
		hac := fullUpwindKernel(t, p)
		fx := newQuadFixture()
		el := fx.element()
		// A zero raw flux counts as outflow
		raw, outflow := hac.Classify(el)
		assert.Equal(t, []bool{true, true, true, true}, outflow)
		for _, r := range raw {
			assert.Equal(t, 0., math.Abs(r))
		}
		for _, r := range hac.ComputeResidual(el) {
			assert.Equal(t, 0., r)
		}
		ke := hac.ComputeJacobian(el)
		for _, v := range ke.RawMatrix().Data {
			assert.False(t, math.IsNaN(v))
			assert.Equal(t, 0., v)
		}
	}
	{ // Test a trial space without nodal shapes skips the diagonal terms
		p.Coupled["vel_x"] = Constant(1)
		hac := fullUpwindKernel(t, p)
		fx := newQuadFixture()
		el := fx.element()
		el.Phi = [][]float64{{1, 1, 1, 1}}
		el.GradPhi = [][]r3.Vec{make([]r3.Vec, 4)}
		var ke *mat.Dense
		assert.NotPanics(t, func() { ke = hac.ComputeJacobian(el) })
		for i := 0; i < 4; i++ {
			assert.Equal(t, 0., ke.At(i, 0))
		}
	}
}

func TestSaveIn(t *testing.T) {
	var (
		fx      = newQuadFixture()
		el      = fx.element()
		resid   = NewAuxVariable("save_in", 4)
		diag    = NewAuxVariable("diag_save_in", 4)
		nWorker = 8
		wg      sync.WaitGroup
		p       = fxParams()
	)
	p.SaveIn = []*AuxVariable{resid}
	p.DiagSaveIn = []*AuxVariable{diag}
	for _, upwinding := range []types.UpwindingType{types.Upwind_None, types.Upwind_Full} {
		resid.Zero()
		diag.Zero()
		p.Upwinding = upwinding
		k, err := New(types.Kernel_Advection, p)
		require.NoError(t, err)
		for w := 0; w < nWorker; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				k.ComputeResidual(el)
				k.ComputeJacobian(el)
			}()
		}
		wg.Wait()
		// Off-diagonal blocks are not saved
		k.ComputeOffDiagJacobian(el, fieldIDs["density"])
		re := k.ComputeResidual(el)
		ke := k.ComputeJacobian(el)
		rv, dv := resid.Values(), diag.Values()
		for n := 0; n < 4; n++ {
			expected := float64(nWorker+1) * re[n]
			assert.InDelta(t, expected, rv[n], 1.e-9*math.Abs(expected))
			expected = float64(nWorker+1) * ke.At(n, n)
			assert.InDelta(t, expected, dv[n], 1.e-9*math.Max(1, math.Abs(expected)))
		}
	}
}
