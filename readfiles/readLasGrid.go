package readfiles

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/gofe/FE2D"
)

/*
Las grids are three whitespace separated text files for one resolution:

	las_nodes_<res>k.txt  one "x y" pair per node
	las_IEN_<res>k.txt    three node indices per element
	las_bdry_<res>k.txt   one boundary node index per line

Blank lines and lines starting with # are ignored. Integer columns may be
written in floating point form, e.g. 1.200000000000000000e+01.
*/
var LasResolutions = []string{"1_25", "2_5", "5", "10", "20", "40"}

func LasGridFiles(dir, resolution string) (nodes, ien, bdry string) {
	nodes = filepath.Join(dir, fmt.Sprintf("las_nodes_%sk.txt", resolution))
	ien = filepath.Join(dir, fmt.Sprintf("las_IEN_%sk.txt", resolution))
	bdry = filepath.Join(dir, fmt.Sprintf("las_bdry_%sk.txt", resolution))
	return
}

// ReadLasGrid loads and validates the las grid of one resolution from dir.
func ReadLasGrid(dir, resolution string, verbose bool) (m *FE2D.Mesh, err error) {
	var (
		nodesFile, ienFile, bdryFile = LasGridFiles(dir, resolution)
		nodes, ien, bdry             [][]float64
	)
	if verbose {
		fmt.Printf("Reading las grid at resolution %sk from %s\n", resolution, dir)
	}
	if nodes, err = readColumnFile(nodesFile, 2); err != nil {
		return
	}
	if ien, err = readColumnFile(ienFile, 3); err != nil {
		return
	}
	if bdry, err = readColumnFile(bdryFile, 1); err != nil {
		return
	}
	var (
		VX, VY   = make([]float64, len(nodes)), make([]float64, len(nodes))
		EToV     = make([][3]int, len(ien))
		boundary = make([]int, len(bdry))
	)
	for i, row := range nodes {
		VX[i], VY[i] = row[0], row[1]
	}
	for k, row := range ien {
		for a := 0; a < 3; a++ {
			if EToV[k][a], err = toIndex(row[a]); err != nil {
				err = fmt.Errorf("%s line %d: %w", ienFile, k+1, err)
				return
			}
		}
	}
	for i, row := range bdry {
		if boundary[i], err = toIndex(row[0]); err != nil {
			err = fmt.Errorf("%s line %d: %w", bdryFile, i+1, err)
			return
		}
	}
	if verbose {
		fmt.Printf("Read %d nodes, %d elements, %d boundary nodes\n", len(VX), len(EToV), len(boundary))
	}
	return FE2D.NewMesh(VX, VY, EToV, boundary)
}

func toIndex(f float64) (i int, err error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		err = fmt.Errorf("index %v is not an integer", f)
		return
	}
	i = int(f)
	return
}

func readColumnFile(fileName string, nCols int) (rows [][]float64, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		err = fmt.Errorf("unable to open file %s: %w", fileName, err)
		return
	}
	defer file.Close()
	if rows, err = readColumns(file, nCols); err != nil {
		err = fmt.Errorf("reading %s: %w", fileName, err)
	}
	return
}

// readColumns parses rows of exactly nCols whitespace separated numbers.
func readColumns(r io.Reader, nCols int) (rows [][]float64, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != nCols {
			err = fmt.Errorf("line %d has %d columns, expected %d", lineNum, len(fields), nCols)
			return
		}
		row := make([]float64, nCols)
		for i, field := range fields {
			if row[i], err = strconv.ParseFloat(field, 64); err != nil {
				err = fmt.Errorf("line %d: %w", lineNum, err)
				return
			}
		}
		rows = append(rows, row)
	}
	err = scanner.Err()
	return
}
