package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/teal/types"
)

// PhaseProperties are the constant material properties of one phase
type PhaseProperties struct {
	Density      float64 `json:"Density"`      // kg/m^3
	HeatCapacity float64 `json:"HeatCapacity"` // J/kg/K
	Conductivity float64 `json:"Conductivity"` // W/m/K
	Velocity     float64 `json:"Velocity"`     // m/s, fluid only
	Source       float64 `json:"Source"`       // W/m^3, with a Source kernel
}

// Parameters obtained from the YAML input file
type InputParametersThermal struct {
	Title              string          `json:"Title"`
	Length             float64         `json:"Length"`
	Elements           int             `json:"Elements"`
	PolynomialOrder    int             `json:"PolynomialOrder"`
	FinalTime          float64         `json:"FinalTime"`
	DT                 float64         `json:"DT"` // zero for a steady solve
	Upwinding          string          `json:"Upwinding"`
	Porosity           float64         `json:"Porosity"`
	ConvectionCoeff    float64         `json:"ConvectionCoeff"` // W/m^2/K
	SpecificArea       float64         `json:"SpecificArea"`    // 1/m
	InletTemperature   float64         `json:"InletTemperature"`
	InitialTemperature float64         `json:"InitialTemperature"`
	Fluid              PhaseProperties `json:"Fluid"`
	Solid              PhaseProperties `json:"Solid"`
	FluidKernels       []string        `json:"FluidKernels"` // kernel names, see types.KernelNames
	SolidKernels       []string        `json:"SolidKernels"`
	FluidBC            string          `json:"FluidBC"`       // applied on both ends, see types.BCNameMap
	MaxIterations      int             `json:"MaxIterations"` // Newton iterations per step
	Tolerance          float64         `json:"Tolerance"`
}

var (
	DefaultFluidKernels = []string{"accumulation", "conduction", "convection", "advection"}
	DefaultSolidKernels = []string{"accumulation", "conduction", "convection", "source"}
)

func (ip *InputParametersThermal) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InputParametersThermal) setDefaults() {
	if ip.PolynomialOrder == 0 {
		ip.PolynomialOrder = 1
	}
	if ip.MaxIterations == 0 {
		ip.MaxIterations = 20
	}
	if ip.Tolerance == 0 {
		ip.Tolerance = 1.e-8
	}
	if len(ip.FluidKernels) == 0 {
		ip.FluidKernels = append([]string(nil), DefaultFluidKernels...)
	}
	if len(ip.SolidKernels) == 0 {
		ip.SolidKernels = append([]string(nil), DefaultSolidKernels...)
	}
	if len(ip.FluidBC) == 0 {
		ip.FluidBC = "thermalfluidflux"
	}
}

// Validate fills unset solver controls with their defaults and checks the
// deck for values the solver can not run with
func (ip *InputParametersThermal) Validate() (err error) {
	ip.setDefaults()
	if _, err = types.NewUpwindingType(ip.Upwinding); err != nil {
		return
	}
	if _, err = KernelKinds(ip.FluidKernels); err != nil {
		return
	}
	if _, err = KernelKinds(ip.SolidKernels); err != nil {
		return
	}
	if _, err = types.NewBCFLAG(ip.FluidBC); err != nil {
		return
	}
	switch {
	case ip.Length <= 0:
		err = fmt.Errorf("Length must be positive, have %v", ip.Length)
	case ip.Elements < 1:
		err = fmt.Errorf("Elements must be at least 1, have %d", ip.Elements)
	case ip.Porosity <= 0 || ip.Porosity >= 1:
		err = fmt.Errorf("Porosity must be in (0,1), have %v", ip.Porosity)
	case ip.DT < 0 || (ip.DT > 0 && ip.FinalTime < ip.DT):
		err = fmt.Errorf("invalid time stepping: DT = %v, FinalTime = %v", ip.DT, ip.FinalTime)
	case ip.MaxIterations < 0 || ip.Tolerance < 0:
		err = fmt.Errorf("invalid Newton controls: MaxIterations = %d, Tolerance = %v",
			ip.MaxIterations, ip.Tolerance)
	}
	return
}

// KernelKinds parses a list of kernel names
func KernelKinds(labels []string) (kinds []types.KernelKind, err error) {
	kinds = make([]types.KernelKind, len(labels))
	for i, label := range labels {
		if kinds[i], err = types.NewKernelKind(label); err != nil {
			return
		}
	}
	return
}

func (ip *InputParametersThermal) BCFlag() (bc types.BCFLAG) {
	bc, _ = types.NewBCFLAG(ip.FluidBC)
	return
}

func (ip *InputParametersThermal) UpwindingType() (ut types.UpwindingType) {
	ut, _ = types.NewUpwindingType(ip.Upwinding)
	return
}

func (ip *InputParametersThermal) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= Length\n", ip.Length)
	fmt.Printf("[%d]\t\t\t\t= Elements\n", ip.Elements)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= DT\n", ip.DT)
	fmt.Printf("[%s]\t\t\t= Upwinding\n", ip.UpwindingType())
	fmt.Printf("%8.5f\t\t= Porosity\n", ip.Porosity)
	fmt.Printf("%8.5f\t\t= Inlet Temperature\n", ip.InletTemperature)
	fmt.Printf("Fluid = %+v\n", ip.Fluid)
	fmt.Printf("Solid = %+v\n", ip.Solid)
	fmt.Printf("%v\t= Fluid Kernels\n", ip.FluidKernels)
	fmt.Printf("%v\t= Solid Kernels\n", ip.SolidKernels)
	fmt.Printf("[%s]\t= Fluid BC\n", ip.BCFlag())
}
