package kernels

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// AuxVariable is diagnostic nodal storage written by the save-in
// mechanism. Elements sharing nodes are evaluated concurrently, so every
// write goes through the mutex.
type AuxVariable struct {
	Name   string
	mu     sync.Mutex
	values []float64
}

func NewAuxVariable(name string, nNodes int) *AuxVariable {
	return &AuxVariable{
		Name:   name,
		values: make([]float64, nNodes),
	}
}

// Add accumulates vals into the entries addressed by nodes
func (av *AuxVariable) Add(nodes []int, vals []float64) {
	av.mu.Lock()
	defer av.mu.Unlock()
	for i, n := range nodes {
		if i < len(vals) {
			av.values[n] += vals[i]
		}
	}
}

func (av *AuxVariable) Zero() {
	av.mu.Lock()
	defer av.mu.Unlock()
	for i := range av.values {
		av.values[i] = 0
	}
}

// Values returns a copy of the stored values
func (av *AuxVariable) Values() (v []float64) {
	av.mu.Lock()
	defer av.mu.Unlock()
	v = make([]float64, len(av.values))
	copy(v, av.values)
	return
}

// SaveIns lists the auxiliary variables a kernel copies its local residual
// (SaveIn) and local Jacobian diagonal (DiagSaveIn) into.
type SaveIns struct {
	SaveIn     []*AuxVariable
	DiagSaveIn []*AuxVariable
}

// SaveInKernel is implemented by kernels that write into save-in storage
type SaveInKernel interface {
	Storage() *SaveIns
}

// ZeroResidual clears the residual save-in storage, the host calls it before
// every residual evaluation
func (s *SaveIns) ZeroResidual() {
	if s == nil {
		return
	}
	for _, av := range s.SaveIn {
		av.Zero()
	}
}

// ZeroDiagonal clears the Jacobian diagonal save-in storage
func (s *SaveIns) ZeroDiagonal() {
	if s == nil {
		return
	}
	for _, av := range s.DiagSaveIn {
		av.Zero()
	}
}

func (s *SaveIns) residual(el *Element, re []float64) {
	if s == nil {
		return
	}
	for _, av := range s.SaveIn {
		av.Add(el.Nodes, re)
	}
}

func (s *SaveIns) diagonal(el *Element, ke *mat.Dense) {
	if s == nil || len(s.DiagSaveIn) == 0 {
		return
	}
	rows, cols := ke.Dims()
	diag := make([]float64, min(rows, cols))
	for i := range diag {
		diag[i] = ke.At(i, i)
	}
	for _, av := range s.DiagSaveIn {
		av.Add(el.Nodes, diag)
	}
}
