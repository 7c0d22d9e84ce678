package kernels

import (
	"errors"
	"fmt"

	"github.com/notargets/teal/types"
)

var ErrMissingCoupled = errors.New("kernels: missing required coupled variable")

// Params is the named-parameter contract between the host and a kernel
type Params struct {
	Coupled    map[string]Coupled
	Upwinding  types.UpwindingType
	SaveIn     []*AuxVariable
	DiagSaveIn []*AuxVariable
}

func (p Params) required(kernel, name string) (c Coupled, err error) {
	var ok bool
	if c, ok = p.Coupled[name]; !ok {
		err = fmt.Errorf("%w: %s needs %q", ErrMissingCoupled, kernel, name)
	}
	return
}

// optional returns the named coupled field or a constant default
func (p Params) optional(name string, def float64) Coupled {
	if c, ok := p.Coupled[name]; ok {
		return c
	}
	return Constant(def)
}

func (p Params) requiredAll(kernel string, names ...string) (cs []Coupled, err error) {
	cs = make([]Coupled, len(names))
	for i, name := range names {
		if cs[i], err = p.required(kernel, name); err != nil {
			return
		}
	}
	return
}

// New builds the volumetric kernel of the given kind
func New(kind types.KernelKind, p Params) (k Kernel, err error) {
	var (
		volfrac = p.optional("volume_frac", 1)
		cs      []Coupled
		save    *SaveIns
	)
	switch kind {
	case types.Kernel_Conduction:
		if cs, err = p.requiredAll(kind.String(), "thermal_conductivity"); err != nil {
			return
		}
		qk := NewHeatConduction(cs[0], volfrac)
		k, save = qk, qk.Save
	case types.Kernel_Convection:
		if cs, err = p.requiredAll(kind.String(),
			"convection_coeff", "coupled_temperature", "specific_area"); err != nil {
			return
		}
		qk := NewHeatConvection(cs[0], cs[1], volfrac, cs[2])
		k, save = qk, qk.Save
	case types.Kernel_Accumulation:
		if cs, err = p.requiredAll(kind.String(), "density", "heat_capacity"); err != nil {
			return
		}
		qk := NewHeatAccumulation(cs[0], cs[1], volfrac)
		k, save = qk, qk.Save
	case types.Kernel_Source:
		if cs, err = p.requiredAll(kind.String(), "coupled_source"); err != nil {
			return
		}
		qk := NewHeatSource(cs[0])
		k, save = qk, qk.Save
	case types.Kernel_Advection:
		if cs, err = p.requiredAll(kind.String(),
			"density", "heat_capacity", "vel_x", "vel_y", "vel_z"); err != nil {
			return
		}
		hac := NewHeatAdvectionConservative(cs[0], cs[1], volfrac, cs[2], cs[3], cs[4], p.Upwinding)
		k, save = hac, hac.Save
	default:
		err = fmt.Errorf("%w: kernel kind %v", types.ErrUnknownOption, kind)
		return
	}
	save.SaveIn, save.DiagSaveIn = p.SaveIn, p.DiagSaveIn
	return
}

// NewBC builds the boundary kernel for flag
func NewBC(flag types.BCFLAG, p Params) (k Kernel, err error) {
	var (
		cs []Coupled
	)
	switch flag {
	case types.BC_ThermalFluidFlux:
		if cs, err = p.requiredAll(flag.String(), "density", "heat_capacity",
			"vel_x", "vel_y", "vel_z", "outside_temperature"); err != nil {
			return
		}
		qk := NewThermalFluidFluxBC(cs[0], cs[1], p.optional("volume_frac", 1),
			cs[2], cs[3], cs[4], cs[5])
		qk.Save.SaveIn, qk.Save.DiagSaveIn = p.SaveIn, p.DiagSaveIn
		k = qk
	default:
		err = fmt.Errorf("%w: boundary condition %v", types.ErrUnknownOption, flag)
	}
	return
}
