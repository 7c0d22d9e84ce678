package assembly

import (
	"fmt"

	"github.com/notargets/teal/FE1D"
	"github.com/notargets/teal/kernels"
)

// DofMap numbers several nodal variables over one mesh, variable major: the
// dofs of variable v are v*NNodes through (v+1)*NNodes-1
type DofMap struct {
	Names  []string
	NNodes int
}

func NewDofMap(nNodes int, names ...string) *DofMap {
	return &DofMap{
		Names:  names,
		NNodes: nNodes,
	}
}

func (dm *DofMap) NVars() int { return len(dm.Names) }
func (dm *DofMap) NDofs() int { return dm.NVars() * dm.NNodes }

// ID returns the VarID of the named variable, NoVar when it is not solved for
func (dm *DofMap) ID(name string) kernels.VarID {
	for i, n := range dm.Names {
		if n == name {
			return kernels.VarID(i)
		}
	}
	return kernels.NoVar
}

// Coupled returns the coupling of a solved variable
func (dm *DofMap) Coupled(name string) kernels.Coupled {
	id := dm.ID(name)
	if id == kernels.NoVar {
		panic(fmt.Errorf("%q is not a solved variable", name))
	}
	return kernels.Variable(name, id)
}

func (dm *DofMap) IsSolved(v kernels.VarID) bool {
	return v >= 0 && int(v) < dm.NVars()
}

func (dm *DofMap) Dofs(v kernels.VarID, nodes []int) (dofs []int) {
	dofs = make([]int, len(nodes))
	for i, n := range nodes {
		dofs[i] = int(v)*dm.NNodes + n
	}
	return
}

// Field returns the part of sol holding variable v, sharing storage
func (dm *DofMap) Field(sol []float64, v kernels.VarID) FE1D.NodalField {
	return sol[int(v)*dm.NNodes : (int(v)+1)*dm.NNodes]
}
