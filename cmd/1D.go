/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/teal/InputParameters"
	"github.com/notargets/teal/model_problems/ThermalFluid1D"
	"github.com/notargets/teal/utils"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One dimensional packed bed, fluid and solid temperatures",
	Long: `
Solves the two temperature packed bed model on a line, the fluid is advected
with the conservative advection kernel and exchanges heat with the solid

teal 1D -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m1d := &Model1D{}
		if m1d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m1d.Threads = viper.GetInt("threads")
		m1d.Profile = viper.GetString("profile")
		ip := processInput(m1d)
		if err = Run1D(context.Background(), m1d, ip, logrus.StandardLogger()); err != nil {
			logrus.Fatal(err)
		}
	},
}

type Model1D struct {
	ICFile  string
	Threads int
	Profile string
}

var exampleFile = `
########################################
Title: "Packed bed"
Length: 1.
Elements: 50
PolynomialOrder: 1
FinalTime: 100.
DT: 1. # zero for a steady solve
Upwinding: full # or none
Porosity: 0.4
ConvectionCoeff: 20.
SpecificArea: 300.
InletTemperature: 400.
InitialTemperature: 300.
Fluid:
  Density: 1.2
  HeatCapacity: 1005.
  Conductivity: 0.026
  Velocity: 0.5
Solid:
  Density: 2500.
  HeatCapacity: 800.
  Conductivity: 2.
  Source: 0.
FluidKernels: [accumulation, conduction, convection, advection]
SolidKernels: [accumulation, conduction, convection, source]
FluidBC: thermalfluidflux # or none
########################################
`

func processInput(m1d *Model1D) (ip *InputParameters.InputParametersThermal) {
	var (
		err  error
		data []byte
	)
	if len(m1d.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = os.ReadFile(m1d.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersThermal{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	OneDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Length, Elements\n\t- DT, FinalTime\n\t- Fluid and Solid properties")
	OneDCmd.Flags().IntP("threads", "n", runtime.NumCPU(), "number of element partitions assembled in parallel")
	OneDCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	_ = viper.BindPFlag("threads", OneDCmd.Flags().Lookup("threads"))
	_ = viper.BindPFlag("profile", OneDCmd.Flags().Lookup("profile"))
}

func Run1D(ctx context.Context, m1d *Model1D, ip *InputParameters.InputParametersThermal,
	log logrus.FieldLogger) (err error) {
	switch m1d.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		return fmt.Errorf("unknown profile type %q, must be cpu or mem", m1d.Profile)
	}
	ip.Print()
	c, err := ThermalFluid1D.NewThermalFluid(ip, m1d.Threads, log)
	if err != nil {
		return
	}
	start := time.Now()
	if err = c.Run(ctx); err != nil {
		return
	}
	log.WithFields(logrus.Fields{
		"steps":   c.StepCount,
		"elapsed": time.Since(start).String(),
		"memory":  utils.GetMemUsage(),
		"outlet":  c.Fluid()[c.Mesh.NNodes-1],
	}).Info("run complete")
	return
}
