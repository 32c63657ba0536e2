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
	"fmt"
	"io/ioutil"
	"os"

	"github.com/notargets/gofe/InputParameters"
	"github.com/notargets/gofe/model_problems/ShallowWater1D"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One dimensional shallow water equations in characteristic form",
	Long: `
Advances the Riemann invariants of the non-linear shallow water equations with
upwind differences from a Gaussian hump at rest,

gofe 1D --nx 200 --finalTime 0.5`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
			ip  *InputParameters.InputParameters1D
		)
		m1d := &Model1D{}
		m1d.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		m1d.NX, _ = cmd.Flags().GetInt("nx")
		m1d.FinalTime, _ = cmd.Flags().GetFloat64("finalTime")
		m1d.Verbose = viper.GetBool("verbose")
		if ip, err = processInput1D(m1d); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		defer startProfile()()
		Run1D(m1d, ip)
	},
}

type Model1D struct {
	ICFile    string
	NX        int
	FinalTime float64
	Verbose   bool
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	OneDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with NX, FinalTime, G, H and LogFrequency")
	OneDCmd.Flags().Int("nx", 0, "number of cells, 0 takes the input file value")
	OneDCmd.Flags().Float64("finalTime", -1, "FinalTime - the target end time for the sim, negative takes the input file value")
}

func processInput1D(m1d *Model1D) (ip *InputParameters.InputParameters1D, err error) {
	ip = InputParameters.NewInputParameters1D()
	if len(m1d.ICFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(m1d.ICFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			err = fmt.Errorf("input file %s: %w", m1d.ICFile, err)
			return
		}
	}
	if m1d.NX > 0 {
		ip.NX = m1d.NX
	}
	if m1d.FinalTime >= 0 {
		ip.FinalTime = m1d.FinalTime
	}
	err = ip.Validate()
	return
}

func Run1D(m1d *Model1D, ip *InputParameters.InputParameters1D) (c *ShallowWater1D.SWECharacteristic) {
	if m1d.Verbose {
		ip.Print()
	}
	c = ShallowWater1D.NewSWECharacteristic(ip.NX, ip.FinalTime, ip.G, ip.H,
		ShallowWater1D.DefaultDepth, func(x float64) float64 { return 0 })
	c.LogFrequency = ip.LogFrequency
	c.Run(m1d.Verbose)
	h, _ := c.Primitive()
	hMax, jMax := h[0], 0
	for j, hj := range h {
		if hj > hMax {
			hMax, jMax = hj, j
		}
	}
	fmt.Printf("t = %8.5f after %d steps, max h = %8.5f at x = %8.5f\n", c.Time, c.Steps, hMax, c.X[jMax])
	return
}
