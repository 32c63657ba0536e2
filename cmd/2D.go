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
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/notargets/gofe/InputParameters"
	"github.com/notargets/gofe/model_problems/AdvectionDiffusion2D"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Model2D struct {
	ICFile     string
	GridFile   string
	GridDir    string
	Resolution string
	OutputFile string
	Workers    int
	Timeout    time.Duration
	Verbose    bool
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Steady advection diffusion of a pollutant plume on a triangle mesh",
	Long: `
Solves u0 dpsi/dx = S + D laplacian(psi) with linear triangles, fixing psi = 0 on
the selected boundary nodes. Reads either the las grid set or an SU2 mesh.

gofe 2D -I plume.yaml -r 2_5 -w 4`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m2d := &Model2D{}
		m2d.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		m2d.GridFile, _ = cmd.Flags().GetString("gridFile")
		m2d.GridDir, _ = cmd.Flags().GetString("gridDir")
		m2d.Resolution, _ = cmd.Flags().GetString("resolution")
		m2d.OutputFile, _ = cmd.Flags().GetString("output")
		m2d.Workers = viper.GetInt("workers")
		m2d.Timeout = viper.GetDuration("timeout")
		m2d.Verbose = viper.GetBool("verbose")
		var ip *InputParameters.InputParameters2D
		if ip, err = processInput(m2d); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		defer startProfile()()
		if err = Run2D(m2d, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- U0, D\n\t- Source\n\t- Boundary")
	TwoDCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in SU2 (.su2) format, replaces the las grid")
	TwoDCmd.Flags().String("gridDir", "", "directory holding the las_nodes/las_IEN/las_bdry files")
	TwoDCmd.Flags().StringP("resolution", "r", "", "las grid resolution, one of 1_25, 2_5, 5, 10, 20, 40")
	TwoDCmd.Flags().StringP("output", "o", "", "binary file for the mesh and solution")
	TwoDCmd.Flags().IntP("workers", "w", 0, "number of assembly workers, 0 takes the input file value")
	TwoDCmd.Flags().Duration("timeout", 0, "abandon the solve after this long, 0 waits forever")
	_ = viper.BindPFlag("workers", TwoDCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("timeout", TwoDCmd.Flags().Lookup("timeout"))
}

// processInput starts from the Southampton defaults, overlays the input file,
// then the command line.
func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D, err error) {
	ip = InputParameters.NewInputParameters2D()
	if len(m2d.ICFile) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(m2d.ICFile); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			err = fmt.Errorf("input file %s: %w", m2d.ICFile, err)
			return
		}
	}
	if len(m2d.GridFile) != 0 {
		ip.GridFile = m2d.GridFile
	}
	if len(m2d.GridDir) != 0 {
		ip.GridDir = m2d.GridDir
	}
	if len(m2d.Resolution) != 0 {
		ip.Resolution = m2d.Resolution
	}
	if len(m2d.OutputFile) != 0 {
		ip.OutputFile = m2d.OutputFile
	}
	if m2d.Workers > 0 {
		ip.Workers = m2d.Workers
	}
	err = ip.Validate()
	return
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D) (err error) {
	var (
		c      *AdvectionDiffusion2D.AdvectionDiffusion
		res    *AdvectionDiffusion2D.Result
		ctx    = context.Background()
		cancel = func() {}
	)
	if m2d.Verbose {
		ip.Print()
	}
	if c, err = AdvectionDiffusion2D.NewFromParameters(ip, m2d.Verbose); err != nil {
		return
	}
	if m2d.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m2d.Timeout)
	}
	defer cancel()
	if res, err = c.Solve(ctx); err != nil {
		return
	}
	return report(res, ip)
}

// report prints the peak, the integral and the probe value, then writes the
// output file when one is named.
func report(res *AdvectionDiffusion2D.Result, ip *InputParameters.InputParameters2D) (err error) {
	node, peak := res.Peak()
	if node < 0 {
		return fmt.Errorf("solution has no nodes")
	}
	fmt.Printf("peak psi = %12.5e at node %d (%10.1f, %10.1f)\n",
		peak, node, res.Mesh.VX[node], res.Mesh.VY[node])
	var total float64
	if total, err = res.Integral(); err != nil {
		return
	}
	fmt.Printf("integral of psi = %12.5e\n", total)
	if len(ip.Probe) == 2 {
		var val float64
		switch val, err = res.Sample(ip.Probe[0], ip.Probe[1]); {
		case errors.Is(err, AdvectionDiffusion2D.ErrOutsideMesh):
			fmt.Printf("probe %v is outside the mesh\n", ip.Probe)
			err = nil
		case err != nil:
			return
		default:
			fmt.Printf("psi(%10.1f, %10.1f) = %12.5e\n", ip.Probe[0], ip.Probe[1], val)
		}
	}
	if len(ip.OutputFile) != 0 {
		if err = res.SaveOutput(ip.OutputFile); err != nil {
			return
		}
		fmt.Printf("wrote %s\n", ip.OutputFile)
	}
	return
}
