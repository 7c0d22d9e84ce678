package assembly

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/teal/FE1D"
	"github.com/notargets/teal/kernels"
	"github.com/notargets/teal/utils"
)

// BoundaryKernel applies a kernel on a subset of the mesh boundary faces
type BoundaryKernel struct {
	Kernel kernels.Kernel
	Faces  []int // indices into Mesh1D.Faces
}

// Assembler evaluates the global residual and Jacobian of a set of kernels.
// Elements are split into NP contiguous partitions evaluated concurrently,
// each with its own accumulation buffer.
type Assembler struct {
	Mesh    *FE1D.Mesh1D
	Dofs    *DofMap
	Aux     FE1D.FieldSet      // auxiliary fields, read only
	Kernels [][]kernels.Kernel // per solved variable
	BCs     [][]BoundaryKernel // per solved variable
	NP      int

	uOld []float64
	dt   float64
	pm   *utils.PartitionMap
}

func NewAssembler(mesh *FE1D.Mesh1D, dofs *DofMap, aux FE1D.FieldSet, NP int) (a *Assembler) {
	a = &Assembler{
		Mesh:    mesh,
		Dofs:    dofs,
		Aux:     aux,
		Kernels: make([][]kernels.Kernel, dofs.NVars()),
		BCs:     make([][]BoundaryKernel, dofs.NVars()),
		NP:      NP,
		pm:      utils.NewPartitionMap(NP, mesh.K),
	}
	return
}

func (a *Assembler) AddKernel(name string, k kernels.Kernel) {
	v := a.Dofs.ID(name)
	a.Kernels[v] = append(a.Kernels[v], k)
}

// AddBC applies k on the listed boundary faces, all faces when none are given
func (a *Assembler) AddBC(name string, k kernels.Kernel, faces ...int) {
	v := a.Dofs.ID(name)
	if len(faces) == 0 {
		for f := range a.Mesh.Faces {
			faces = append(faces, f)
		}
	}
	a.BCs[v] = append(a.BCs[v], BoundaryKernel{Kernel: k, Faces: faces})
}

// SetTimeStep sets the backward Euler state, dt == 0 removes the time
// derivative
func (a *Assembler) SetTimeStep(uOld []float64, dt float64) {
	a.uOld, a.dt = uOld, dt
}

// Check verifies every coupled field a kernel reads is bound
func (a *Assembler) Check(names ...string) (err error) {
	for _, name := range names {
		if _, ok := a.Aux[name]; !ok && a.Dofs.ID(name) == kernels.NoVar {
			err = fmt.Errorf("%w: field %q is neither solved nor auxiliary",
				kernels.ErrMissingCoupled, name)
			return
		}
	}
	return
}

func (a *Assembler) fieldSet(sol []float64) (fs FE1D.FieldSet) {
	fs = make(FE1D.FieldSet, len(a.Aux)+a.Dofs.NVars())
	for name, nf := range a.Aux {
		fs[name] = nf
	}
	for v, name := range a.Dofs.Names {
		fs[name] = a.Dofs.Field(sol, kernels.VarID(v))
	}
	return
}

// fill sets the kernel variable v on a geometric element
func (a *Assembler) fill(el *kernels.Element, v kernels.VarID, sol []float64, fs FE1D.FieldSet) {
	var (
		u = a.Dofs.Field(sol, v)
	)
	el.Dofs = a.Dofs.Dofs(v, el.Nodes)
	el.U, el.GradU = u.Interpolate(el)
	el.UNodal = u.Extract(el.Nodes)
	el.UDot = make([]float64, el.NQp())
	if a.dt != 0 {
		uDot := make(FE1D.NodalField, len(u))
		old := a.Dofs.Field(a.uOld, v)
		for n := range uDot {
			uDot[n] = (u[n] - old[n]) / a.dt
		}
		el.UDot, _ = uDot.Interpolate(el)
		el.DUDotDU = 1 / a.dt
	}
	el.Fields = fs.Bind(el)
}

// Element returns element k set up for variable v at the state sol
func (a *Assembler) Element(k int, v kernels.VarID, sol []float64) (el *kernels.Element) {
	el = a.Mesh.Reinit(k)
	a.fill(el, v, sol, a.fieldSet(sol))
	return
}

// zeroSaveIns clears the save-in storage of every kernel before a pass
func (a *Assembler) zeroSaveIns(diagonal bool) {
	zero := func(k kernels.Kernel) {
		sk, ok := k.(kernels.SaveInKernel)
		if !ok {
			return
		}
		if diagonal {
			sk.Storage().ZeroDiagonal()
		} else {
			sk.Storage().ZeroResidual()
		}
	}
	for v := range a.Kernels {
		for _, k := range a.Kernels[v] {
			zero(k)
		}
		for _, bc := range a.BCs[v] {
			zero(bc.Kernel)
		}
	}
}

type visitor struct {
	residual func(el *kernels.Element, k kernels.Kernel)
	jacobian func(el *kernels.Element, v kernels.VarID, k kernels.Kernel)
}

// parallel visits every element and boundary face with NP workers. Each
// worker is handed its partition number and must only touch its own buffers.
func (a *Assembler) parallel(ctx context.Context, sol []float64, newVisitor func(np int) visitor) (err error) {
	if len(sol) != a.Dofs.NDofs() {
		err = fmt.Errorf("solution length %d, want %d", len(sol), a.Dofs.NDofs())
		return
	}
	fs := a.fieldSet(sol)
	eg, egCtx := errgroup.WithContext(ctx)
	for np := 0; np < a.pm.ParallelDegree; np++ {
		var (
			kMin, kMax = a.pm.GetBucketRange(np)
			vis        = newVisitor(np)
		)
		eg.Go(func() error {
			for k := kMin; k < kMax; k++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				for v := range a.Kernels {
					el := a.Mesh.Reinit(k)
					a.fill(el, kernels.VarID(v), sol, fs)
					for _, kern := range a.Kernels[v] {
						vis.visit(el, kernels.VarID(v), kern)
					}
				}
			}
			for v := range a.BCs {
				for _, bc := range a.BCs[v] {
					for _, f := range bc.Faces {
						face := a.Mesh.Faces[f]
						if face.Elem < kMin || face.Elem >= kMax {
							continue
						}
						el := a.Mesh.ReinitFace(face)
						a.fill(el, kernels.VarID(v), sol, fs)
						vis.visit(el, kernels.VarID(v), bc.Kernel)
					}
				}
			}
			return nil
		})
	}
	err = eg.Wait()
	return
}

func (vis visitor) visit(el *kernels.Element, v kernels.VarID, k kernels.Kernel) {
	if vis.residual != nil {
		vis.residual(el, k)
	}
	if vis.jacobian != nil {
		vis.jacobian(el, v, k)
	}
}

// Residual returns the global residual at sol. Residual save-in storage
// holds the nodal contributions of this evaluation on return.
func (a *Assembler) Residual(ctx context.Context, sol []float64) (R []float64, err error) {
	var (
		partial = make([][]float64, a.pm.ParallelDegree)
	)
	a.zeroSaveIns(false)
	err = a.parallel(ctx, sol, func(np int) visitor {
		r := make([]float64, a.Dofs.NDofs())
		partial[np] = r
		return visitor{residual: func(el *kernels.Element, k kernels.Kernel) {
			for i, re := range k.ComputeResidual(el) {
				r[el.Dofs[i]] += re
			}
		}}
	})
	if err != nil {
		return
	}
	R = make([]float64, a.Dofs.NDofs())
	for _, r := range partial {
		for i := range R {
			R[i] += r[i]
		}
	}
	return
}

// Jacobian returns the global Jacobian at sol, with an off-diagonal block
// for every coupled field that is itself solved for
func (a *Assembler) Jacobian(ctx context.Context, sol []float64) (J utils.DOK, err error) {
	var (
		nDofs   = a.Dofs.NDofs()
		partial = make([]utils.DOK, a.pm.ParallelDegree)
	)
	a.zeroSaveIns(true)
	err = a.parallel(ctx, sol, func(np int) visitor {
		jac := utils.NewDOK(nDofs, nDofs)
		partial[np] = jac
		return visitor{jacobian: func(el *kernels.Element, v kernels.VarID, k kernels.Kernel) {
			jac.AddBlock(el.Dofs, el.Dofs, k.ComputeJacobian(el))
			for _, jvar := range k.CoupledVars() {
				if jvar == v || !a.Dofs.IsSolved(jvar) {
					continue
				}
				jac.AddBlock(el.Dofs, a.Dofs.Dofs(jvar, el.Nodes),
					k.ComputeOffDiagJacobian(el, jvar))
			}
		}}
	})
	if err != nil {
		return
	}
	J = utils.NewDOK(nDofs, nDofs)
	for _, jac := range partial {
		J.Merge(jac)
	}
	return
}
