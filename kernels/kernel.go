package kernels

import (
	"gonum.org/v1/gonum/mat"
)

// Kernel is the capability the host uses on every element visit. Each call
// builds and returns fresh local storage: ComputeResidual returns one entry
// per test function, the Jacobian calls return a test x trial matrix.
// Off-diagonal blocks assume the coupled variable shares the trial space of
// the kernel variable.
type Kernel interface {
	Name() string
	ComputeResidual(el *Element) (re []float64)
	ComputeJacobian(el *Element) (ke *mat.Dense)
	ComputeOffDiagJacobian(el *Element, jvar VarID) (ke *mat.Dense)
	// CoupledVars lists the solved variables this kernel has off-diagonal blocks for
	CoupledVars() []VarID
}

// QpFunctions is the pointwise form of a kernel. Each function returns the
// unweighted integrand at q, the driver applies JxW*coord and sums.
type QpFunctions struct {
	Residual func(q *Qp) float64
	Jacobian func(q *Qp) float64
	OffDiag  func(q *Qp, jvar VarID) float64
}

// QpKernel drives a set of QpFunctions over the test/trial/quadrature loops
type QpKernel struct {
	QpFunctions
	name    string
	coupled []Coupled
	Save    *SaveIns
}

func NewQpKernel(name string, f QpFunctions, coupled ...Coupled) *QpKernel {
	return &QpKernel{
		QpFunctions: f,
		name:        name,
		coupled:     coupled,
		Save:        &SaveIns{},
	}
}

func (k *QpKernel) Name() string { return k.name }

func (k *QpKernel) Storage() *SaveIns { return k.Save }

func (k *QpKernel) CoupledVars() (vars []VarID) {
	return coupledVars(k.coupled)
}

func (k *QpKernel) ComputeResidual(el *Element) (re []float64) {
	var (
		q = Qp{El: el}
	)
	re = make([]float64, el.NTest())
	for q.I = 0; q.I < el.NTest(); q.I++ {
		for q.QP = 0; q.QP < el.NQp(); q.QP++ {
			re[q.I] += el.weight(q.QP) * k.Residual(&q)
		}
	}
	k.Save.residual(el, re)
	return
}

func (k *QpKernel) ComputeJacobian(el *Element) (ke *mat.Dense) {
	ke = k.loopIJ(el, k.Jacobian)
	k.Save.diagonal(el, ke)
	return
}

func (k *QpKernel) ComputeOffDiagJacobian(el *Element, jvar VarID) (ke *mat.Dense) {
	if k.OffDiag == nil {
		return mat.NewDense(el.NTest(), el.NPhi(), nil)
	}
	return k.loopIJ(el, func(q *Qp) float64 { return k.OffDiag(q, jvar) })
}

func (k *QpKernel) loopIJ(el *Element, f func(q *Qp) float64) (ke *mat.Dense) {
	var (
		q           = Qp{El: el}
		nTest, nPhi = el.NTest(), el.NPhi()
		data        = make([]float64, nTest*nPhi)
	)
	for q.I = 0; q.I < nTest; q.I++ {
		for q.J = 0; q.J < nPhi; q.J++ {
			var sum float64
			for q.QP = 0; q.QP < el.NQp(); q.QP++ {
				sum += el.weight(q.QP) * f(&q)
			}
			data[q.I*nPhi+q.J] = sum
		}
	}
	ke = mat.NewDense(nTest, nPhi, data)
	return
}

func coupledVars(coupled []Coupled) (vars []VarID) {
	seen := make(map[VarID]bool)
	for _, c := range coupled {
		if c.Var == NoVar || seen[c.Var] {
			continue
		}
		seen[c.Var] = true
		vars = append(vars, c.Var)
	}
	return
}
