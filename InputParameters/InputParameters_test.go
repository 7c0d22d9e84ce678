package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/teal/types"
)

var deck = []byte(`
Title: "Packed bed"
Length: 2.0
Elements: 40
PolynomialOrder: 2
FinalTime: 10
DT: 0.5
Upwinding: full
Porosity: 0.4
ConvectionCoeff: 20
SpecificArea: 300
InletTemperature: 400
InitialTemperature: 300
Fluid:
  Density: 1.2
  HeatCapacity: 1005
  Conductivity: 0.026
  Velocity: 0.5
Solid:
  Density: 2500
  HeatCapacity: 800
  Conductivity: 2
  Source: 1000
`)

func TestInputParameters(t *testing.T) {
	{ // Test a complete deck
		var ip InputParametersThermal
		require.NoError(t, ip.Parse(deck))
		assert.Equal(t, "Packed bed", ip.Title)
		assert.Equal(t, 40, ip.Elements)
		assert.Equal(t, 2, ip.PolynomialOrder)
		assert.Equal(t, types.Upwind_Full, ip.UpwindingType())
		assert.Equal(t, 0.5, ip.Fluid.Velocity)
		assert.Equal(t, 1000., ip.Solid.Source)
		// Defaults
		assert.Equal(t, 20, ip.MaxIterations)
		assert.Equal(t, 1.e-8, ip.Tolerance)
		assert.Equal(t, DefaultFluidKernels, ip.FluidKernels)
		assert.Equal(t, types.BC_ThermalFluidFlux, ip.BCFlag())
	}
	{ // Test kernels and boundary conditions listed by name
		var ip InputParametersThermal
		extra := "FluidKernels: [HeatAdvectionConservative, conduction]\nFluidBC: none\n"
		require.NoError(t, ip.Parse(append(deck, extra...)))
		kinds, err := KernelKinds(ip.FluidKernels)
		require.NoError(t, err)
		assert.Equal(t, []types.KernelKind{types.Kernel_Advection, types.Kernel_Conduction}, kinds)
		assert.Equal(t, DefaultSolidKernels, ip.SolidKernels)
		assert.Equal(t, types.BC_None, ip.BCFlag())
		ip = InputParametersThermal{}
		err = ip.Parse(append(deck, "SolidKernels: [radiation]\n"...))
		assert.True(t, errors.Is(err, types.ErrUnknownOption))
	}
	{ // Test Validate supplies the solver defaults to a deck built in code
		ip := InputParametersThermal{Length: 1, Elements: 4, Porosity: 0.3}
		require.NoError(t, ip.Validate())
		assert.Equal(t, 1, ip.PolynomialOrder)
		assert.Equal(t, 20, ip.MaxIterations)
		assert.Equal(t, 1.e-8, ip.Tolerance)
		ip.Tolerance = -1
		assert.Error(t, ip.Validate())
	}
	{ // Test configuration errors
		var ip InputParametersThermal
		err := ip.Parse([]byte("Length: 1\nElements: 4\nPorosity: 0.3\nUpwinding: partial\n"))
		assert.True(t, errors.Is(err, types.ErrUnknownOption))
		ip = InputParametersThermal{}
		assert.Error(t, ip.Parse([]byte("Length: 1\nElements: 4\nPorosity: 1.3\n")))
		ip = InputParametersThermal{}
		assert.Error(t, ip.Parse([]byte("Length: 1\nElements: 0\nPorosity: 0.3\n")))
		ip = InputParametersThermal{}
		assert.Error(t, ip.Parse([]byte("Length: 1\nElements: 4\nPorosity: 0.3\nDT: 2\nFinalTime: 1\n")))
		ip = InputParametersThermal{}
		assert.Error(t, ip.Parse([]byte("Length: [1, 2]\n")))
	}
	{ // Test an absent upwinding type means none
		var ip InputParametersThermal
		require.NoError(t, ip.Parse([]byte("Length: 1\nElements: 4\nPorosity: 0.3\n")))
		assert.Equal(t, types.Upwind_None, ip.UpwindingType())
	}
}
