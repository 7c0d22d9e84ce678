package FE1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJacobiGQ(t *testing.T) {
	{ // Test Gauss-Legendre nodes and weights
		X, W := JacobiGQ(0, 0, 1)
		assert.InDeltaSlice(t, []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)}, X, 1.e-14)
		assert.InDeltaSlice(t, []float64{1, 1}, W, 1.e-14)
		X, W = JacobiGQ(0, 0, 2)
		assert.InDeltaSlice(t, []float64{-math.Sqrt(0.6), 0, math.Sqrt(0.6)}, X, 1.e-14)
		assert.InDeltaSlice(t, []float64{5. / 9, 8. / 9, 5. / 9}, W, 1.e-14)
		X, W = JacobiGQ(0, 0, 0)
		assert.Equal(t, []float64{0}, X)
		assert.Equal(t, []float64{2}, W)
	}
	{ // Test N+1 points integrate polynomials of degree 2N+1 exactly
		for N := 1; N < 6; N++ {
			X, W := JacobiGQ(0, 0, N)
			for p := 0; p <= 2*N+1; p++ {
				var sum float64
				for i := range X {
					sum += W[i] * math.Pow(X[i], float64(p))
				}
				exact := 0.
				if p%2 == 0 {
					exact = 2 / float64(p+1)
				}
				assert.InDeltaf(t, exact, sum, 1.e-12, "N = %d, p = %d", N, p)
			}
		}
	}
	{ // Test the weights of a general Jacobi weight sum to its integral
		const (
			α = 0.3
			β = 0.7
		)
		_, W := JacobiGQ(α, β, 5)
		var sum float64
		for _, w := range W {
			sum += w
		}
		exact := math.Pow(2, α+β+1) * math.Gamma(α+1) * math.Gamma(β+1) / math.Gamma(α+β+2)
		assert.InDelta(t, exact, sum, 1.e-12)
	}
}

func TestLagrange(t *testing.T) {
	R := []float64{-1, 0, 1}
	{ // Test the interpolation property
		for i, r := range R {
			l, _ := Lagrange(R, r)
			for j := range l {
				expected := 0.
				if i == j {
					expected = 1
				}
				assert.InDelta(t, expected, l[j], 1.e-15)
			}
		}
	}
	{ // Test partition of unity and the derivative of a quadratic
		for _, r := range []float64{-0.7, 0.1, 0.55} {
			l, dl := Lagrange(R, r)
			var sum, dsum, df float64
			for i := range l {
				sum += l[i]
				dsum += dl[i]
				df += R[i] * R[i] * dl[i]
			}
			assert.InDelta(t, 1., sum, 1.e-14)
			assert.InDelta(t, 0., dsum, 1.e-14)
			assert.InDelta(t, 2*r, df, 1.e-14)
		}
	}
}
