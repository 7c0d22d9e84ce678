package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownOption = errors.New("types: unknown option")

type UpwindingType uint8

const (
	Upwind_None UpwindingType = iota
	Upwind_Full
)

var UpwindingNames = map[string]UpwindingType{
	"none": Upwind_None,
	"full": Upwind_Full,
}

func (ut UpwindingType) String() string {
	switch ut {
	case Upwind_None:
		return "none"
	case Upwind_Full:
		return "full"
	}
	return fmt.Sprintf("UpwindingType(%d)", ut)
}

// NewUpwindingType parses the upwinding_type option, an empty label selects
// the default (none)
func NewUpwindingType(label string) (ut UpwindingType, err error) {
	var ok bool
	if len(label) == 0 {
		return Upwind_None, nil
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if ut, ok = UpwindingNames[label]; !ok {
		err = fmt.Errorf("%w: upwinding_type %q, must be one of %v",
			ErrUnknownOption, label, names(UpwindingNames))
	}
	return
}

type KernelKind uint8

const (
	Kernel_Conduction KernelKind = iota
	Kernel_Convection
	Kernel_Accumulation
	Kernel_Source
	Kernel_Advection
)

var KernelNames = map[string]KernelKind{
	"heatconduction":            Kernel_Conduction,
	"conduction":                Kernel_Conduction,
	"heatconvection":            Kernel_Convection,
	"convection":                Kernel_Convection,
	"heataccumulation":          Kernel_Accumulation,
	"accumulation":              Kernel_Accumulation,
	"heatsource":                Kernel_Source,
	"source":                    Kernel_Source,
	"heatadvectionconservative": Kernel_Advection,
	"advection":                 Kernel_Advection,
}

func (kk KernelKind) String() string {
	switch kk {
	case Kernel_Conduction:
		return "HeatConduction"
	case Kernel_Convection:
		return "HeatConvection"
	case Kernel_Accumulation:
		return "HeatAccumulation"
	case Kernel_Source:
		return "HeatSource"
	case Kernel_Advection:
		return "HeatAdvectionConservative"
	}
	return fmt.Sprintf("KernelKind(%d)", kk)
}

func NewKernelKind(label string) (kk KernelKind, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if kk, ok = KernelNames[label]; !ok {
		err = fmt.Errorf("%w: kernel %q, must be one of %v",
			ErrUnknownOption, label, names(KernelNames))
	}
	return
}

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_ThermalFluidFlux
)

var BCNameMap = map[string]BCFLAG{
	"none":               BC_None,
	"thermalfluidflux":   BC_ThermalFluidFlux,
	"thermalfluidfluxbc": BC_ThermalFluidFlux,
	"flux":               BC_ThermalFluidFlux,
}

func (bc BCFLAG) String() string {
	switch bc {
	case BC_None:
		return "None"
	case BC_ThermalFluidFlux:
		return "ThermalFluidFluxBC"
	}
	return fmt.Sprintf("BCFLAG(%d)", bc)
}

func NewBCFLAG(label string) (bc BCFLAG, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if bc, ok = BCNameMap[label]; !ok {
		err = fmt.Errorf("%w: boundary condition %q, must be one of %v",
			ErrUnknownOption, label, names(BCNameMap))
	}
	return
}

func names[T any](m map[string]T) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}
