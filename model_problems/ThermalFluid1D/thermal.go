package ThermalFluid1D

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/teal/FE1D"
	"github.com/notargets/teal/InputParameters"
	"github.com/notargets/teal/assembly"
	"github.com/notargets/teal/kernels"
	"github.com/notargets/teal/types"
	"github.com/notargets/teal/utils"
)

const (
	FluidTemp = "fluid_temperature"
	SolidTemp = "solid_temperature"
)

// ThermalFluid is a packed bed on [0,Length]: a fluid flowing through a
// porous solid, each phase with its own temperature, exchanging heat by
// interphase convection. The fluid enters at InletTemperature.
type ThermalFluid struct {
	IP        *InputParameters.InputParametersThermal
	Mesh      *FE1D.Mesh1D
	Dofs      *assembly.DofMap
	Asm       *assembly.Assembler
	Advection *kernels.HeatAdvectionConservative
	// AdvectedEnergy receives the nodal residual of the advection term
	AdvectedEnergy *kernels.AuxVariable
	Sol            []float64
	Time           float64
	StepCount      int
	Log            logrus.FieldLogger
}

func NewThermalFluid(ip *InputParameters.InputParametersThermal, NP int,
	log logrus.FieldLogger) (c *ThermalFluid, err error) {
	if err = ip.Validate(); err != nil {
		return
	}
	c = &ThermalFluid{
		IP:  ip,
		Log: log,
	}
	if c.Mesh, err = FE1D.NewMesh1D(0, ip.Length, ip.Elements, ip.PolynomialOrder); err != nil {
		return
	}
	c.Dofs = assembly.NewDofMap(c.Mesh.NNodes, FluidTemp, SolidTemp)
	aux := FE1D.FieldSet{
		"porosity": c.Mesh.ConstantField(ip.Porosity),
		"solidity": c.Mesh.ConstantField(1 - ip.Porosity),
	}
	c.Asm = assembly.NewAssembler(c.Mesh, c.Dofs, aux, NP)
	c.AdvectedEnergy = kernels.NewAuxVariable("advected_energy", c.Mesh.NNodes)
	if err = c.addKernels(); err != nil {
		return
	}
	c.Sol = make([]float64, c.Dofs.NDofs())
	for i := range c.Sol {
		c.Sol[i] = ip.InitialTemperature
	}
	return
}

func (c *ThermalFluid) addKernels() (err error) {
	var (
		ip = c.IP
		k  kernels.Kernel
	)
	fluid := kernels.Params{
		Upwinding: ip.UpwindingType(),
		Coupled: map[string]kernels.Coupled{
			"density":              kernels.Constant(ip.Fluid.Density),
			"heat_capacity":        kernels.Constant(ip.Fluid.HeatCapacity),
			"thermal_conductivity": kernels.Constant(ip.Fluid.Conductivity),
			"volume_frac":          kernels.Aux("porosity"),
			"vel_x":                kernels.Constant(ip.Fluid.Velocity),
			"vel_y":                kernels.Constant(0),
			"vel_z":                kernels.Constant(0),
			"convection_coeff":     kernels.Constant(ip.ConvectionCoeff),
			"specific_area":        kernels.Constant(ip.SpecificArea),
			"coupled_temperature":  c.Dofs.Coupled(SolidTemp),
			"outside_temperature":  kernels.Constant(ip.InletTemperature),
			"coupled_source":       kernels.Constant(ip.Fluid.Source),
		},
	}
	solid := kernels.Params{
		Coupled: map[string]kernels.Coupled{
			"density":              kernels.Constant(ip.Solid.Density),
			"heat_capacity":        kernels.Constant(ip.Solid.HeatCapacity),
			"thermal_conductivity": kernels.Constant(ip.Solid.Conductivity),
			"volume_frac":          kernels.Aux("solidity"),
			"convection_coeff":     kernels.Constant(ip.ConvectionCoeff),
			"specific_area":        kernels.Constant(ip.SpecificArea),
			"coupled_temperature":  c.Dofs.Coupled(FluidTemp),
			"coupled_source":       kernels.Constant(ip.Solid.Source),
		},
	}
	add := func(name string, p kernels.Params, labels []string) {
		var kinds []types.KernelKind
		if kinds, err = InputParameters.KernelKinds(labels); err != nil {
			return
		}
		for _, kind := range kinds {
			p.SaveIn = nil
			if name == FluidTemp && kind == types.Kernel_Advection {
				p.SaveIn = []*kernels.AuxVariable{c.AdvectedEnergy}
			}
			if k, err = kernels.New(kind, p); err != nil {
				return
			}
			if hac, ok := k.(*kernels.HeatAdvectionConservative); ok && name == FluidTemp {
				c.Advection = hac
			}
			c.Asm.AddKernel(name, k)
		}
	}
	add(FluidTemp, fluid, ip.FluidKernels)
	if err == nil {
		add(SolidTemp, solid, ip.SolidKernels)
	}
	if err != nil {
		return
	}
	if bc := ip.BCFlag(); bc != types.BC_None {
		if k, err = kernels.NewBC(bc, fluid); err != nil {
			return
		}
		c.Asm.AddBC(FluidTemp, k)
	}
	return c.Asm.Check("porosity", "solidity", FluidTemp, SolidTemp)
}

func (c *ThermalFluid) Fluid() FE1D.NodalField { return c.Dofs.Field(c.Sol, c.Dofs.ID(FluidTemp)) }
func (c *ThermalFluid) Solid() FE1D.NodalField { return c.Dofs.Field(c.Sol, c.Dofs.ID(SolidTemp)) }

// Run advances to FinalTime, or solves the steady problem when DT is zero
func (c *ThermalFluid) Run(ctx context.Context) (err error) {
	var (
		ip = c.IP
	)
	if ip.DT == 0 {
		_, err = c.Step(ctx, 0)
		return
	}
	for c.Time < ip.FinalTime-1.e-12*ip.FinalTime {
		dt := math.Min(ip.DT, ip.FinalTime-c.Time)
		if _, err = c.Step(ctx, dt); err != nil {
			return
		}
	}
	return
}

// StepReport summarizes one converged step
type StepReport struct {
	Iterations       int
	ResidualNorm     float64
	FluidMin         float64
	FluidMax         float64
	SolidMin         float64
	SolidMax         float64
	ConservationLoss float64
}

// Step advances by dt with backward Euler, dt == 0 is a steady solve. The
// solution is left at the start of the step when Newton fails.
func (c *ThermalFluid) Step(ctx context.Context, dt float64) (sr StepReport, err error) {
	uOld := make([]float64, len(c.Sol))
	copy(uOld, c.Sol)
	c.Asm.SetTimeStep(uOld, dt)
	if sr.Iterations, sr.ResidualNorm, err = c.Newton(ctx); err != nil {
		copy(c.Sol, uOld)
		return
	}
	c.Time += dt
	c.StepCount++
	sr.FluidMin, sr.FluidMax = floats.Min(c.Fluid()), floats.Max(c.Fluid())
	sr.SolidMin, sr.SolidMax = floats.Min(c.Solid()), floats.Max(c.Solid())
	sr.ConservationLoss = c.ConservationLoss()
	c.Log.WithFields(logrus.Fields{
		"step":         c.StepCount,
		"time":         c.Time,
		"newton":       sr.Iterations,
		"residual":     sr.ResidualNorm,
		"fluid_min":    sr.FluidMin,
		"fluid_max":    sr.FluidMax,
		"solid_min":    sr.SolidMin,
		"solid_max":    sr.SolidMax,
		"conservation": sr.ConservationLoss,
	}).Info("step converged")
	return
}

// Newton solves R(sol) = 0 in place with a dense LU factorization of the
// assembled Jacobian
func (c *ThermalFluid) Newton(ctx context.Context) (its int, rNorm float64, err error) {
	var (
		R, dU  []float64
		J      utils.DOK
		r0     float64
		lu     mat.LU
		nDofs  = len(c.Sol)
		ip     = c.IP
		stop   float64
		dUView = mat.NewVecDense(nDofs, nil)
	)
	for its = 0; ; its++ {
		if R, err = c.Asm.Residual(ctx, c.Sol); err != nil {
			return
		}
		if utils.IsNan(R) {
			err = fmt.Errorf("NaN in residual at Newton iteration %d", its)
			return
		}
		rNorm = floats.Norm(R, 2)
		if its == 0 {
			r0 = rNorm
			stop = ip.Tolerance * math.Max(1, r0)
		}
		c.Log.WithFields(logrus.Fields{
			"iteration": its,
			"residual":  rNorm,
		}).Debug("newton")
		if rNorm <= stop {
			return
		}
		if its == ip.MaxIterations {
			err = fmt.Errorf("newton failed to converge in %d iterations, residual %g (initial %g)",
				its, rNorm, r0)
			return
		}
		if J, err = c.Asm.Jacobian(ctx, c.Sol); err != nil {
			return
		}
		lu.Factorize(J.ToDense())
		floats.Scale(-1, R)
		if err = lu.SolveVecTo(dUView, false, mat.NewVecDense(nDofs, R)); err != nil {
			var cond mat.Condition
			if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
				err = fmt.Errorf("singular Jacobian at Newton iteration %d: %w", its, err)
				return
			}
			c.Log.WithField("condition", float64(cond)).Warn("ill conditioned Jacobian")
			err = nil
		}
		dU = dUView.RawVector().Data
		floats.Add(c.Sol, dU)
	}
}

// ConservationLoss is the largest element sum of the advection residuals,
// relative to the element's total advected energy. The save-in storage holds
// the nodal advected energy of the current state on return.
func (c *ThermalFluid) ConservationLoss() (loss float64) {
	c.AdvectedEnergy.Zero()
	if c.Advection == nil {
		return
	}
	for k := 0; k < c.Mesh.K; k++ {
		el := c.Asm.Element(k, c.Dofs.ID(FluidTemp), c.Sol)
		re := c.Advection.ComputeResidual(el)
		var sum, mag float64
		for _, r := range re {
			sum += r
			mag += math.Abs(r)
		}
		if mag > 0 {
			loss = math.Max(loss, math.Abs(sum)/mag)
		}
	}
	return
}
