package FE1D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGQ returns the N+1 Gauss nodes and weights of the Jacobi weight
// (1-x)^alpha (1+x)^beta on [-1,1], from the eigen decomposition of the
// symmetric tridiagonal Jacobi matrix
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		h1, d0, d1 []float64
		fac        float64
		VVr        *mat.Dense
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{gamma0(alpha, beta)}
		return
	}
	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: -1/2*(alpha^2-beta^2)/(h1+2)/h1
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	if alpha+beta < 10*1.e-16 {
		d0[0] = 0.
	}

	// 1st upper diagonal
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic(fmt.Errorf("eigenvalue decomposition failed for N = %d", N))
	}
	X = eig.Values(nil)

	VVr = mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i, v := range VVr.RawRowView(0) {
		W[i] = v * v * g0
	}
	return
}

// gamma0 is the integral of the Jacobi weight over [-1,1]
func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// Lagrange evaluates the Lagrange basis on nodes R, and its derivative, at r
func Lagrange(R []float64, r float64) (l, dl []float64) {
	var (
		np = len(R)
	)
	l, dl = make([]float64, np), make([]float64, np)
	for i := 0; i < np; i++ {
		l[i] = 1
		for j := 0; j < np; j++ {
			if j == i {
				continue
			}
			l[i] *= (r - R[j]) / (R[i] - R[j])
			// product rule, the j-th factor differentiated
			d := 1 / (R[i] - R[j])
			for m := 0; m < np; m++ {
				if m == i || m == j {
					continue
				}
				d *= (r - R[m]) / (R[i] - R[m])
			}
			dl[i] += d
		}
	}
	return
}
