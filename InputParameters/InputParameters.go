package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
)

// SourceParameters selects the source term S(x,y).
type SourceParameters struct {
	Type  string  `json:"Type"` // "gaussian" or "constant"
	X0    float64 `json:"X0"`
	Y0    float64 `json:"Y0"`
	Sigma float64 `json:"Sigma"`
	Value float64 `json:"Value"`
}

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title             string             `json:"Title"`
	U0                float64            `json:"U0"` // Wind speed along x
	D                 float64            `json:"D"`  // Diffusion coefficient
	GridDir           string             `json:"GridDir"`
	Resolution        string             `json:"Resolution"` // las grid resolution, e.g. "5" for 5k
	GridFile          string             `json:"GridFile"`   // SU2 mesh, used instead of the las grid when set
	Source            SourceParameters   `json:"Source"`
	Boundary          string             `json:"Boundary"` // "northing", "all" or "markers"
	NorthingThreshold float64            `json:"NorthingThreshold"`
	FixedMarkers      map[string]float64 `json:"FixedMarkers"` // SU2 marker tag to prescribed value
	Workers           int                `json:"Workers"`
	OutputFile        string             `json:"OutputFile"`
	Probe             []float64          `json:"Probe"` // x,y point sampled after the solve
}

// NewInputParameters2D returns the Southampton plume case on the 5k las grid.
func NewInputParameters2D() *InputParameters2D {
	return &InputParameters2D{
		Title:      "Southampton fire plume",
		U0:         10,
		D:          16.e-6,
		GridDir:    "las_grids",
		Resolution: "5",
		Source: SourceParameters{
			Type:  "gaussian",
			X0:    442365,
			Y0:    115483,
			Sigma: 100,
		},
		Boundary:          "northing",
		NorthingThreshold: 110000,
		Workers:           1,
		Probe:             []float64{473993, 171625},
	}
}

// Parse overlays the YAML document onto the receiver, then validates.
func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InputParameters2D) Validate() (err error) {
	ip.Source.Type = strings.ToLower(ip.Source.Type)
	ip.Boundary = strings.ToLower(ip.Boundary)
	switch {
	case ip.D < 0:
		err = fmt.Errorf("diffusion coefficient must be non negative, have %v", ip.D)
	case ip.Source.Type != "gaussian" && ip.Source.Type != "constant":
		err = fmt.Errorf("unknown source type [%s]", ip.Source.Type)
	case ip.Source.Type == "gaussian" && ip.Source.Sigma <= 0:
		err = fmt.Errorf("gaussian source needs a positive Sigma, have %v", ip.Source.Sigma)
	case ip.Boundary != "northing" && ip.Boundary != "all" && ip.Boundary != "markers":
		err = fmt.Errorf("unknown boundary selection [%s]", ip.Boundary)
	case ip.Boundary == "markers" && ip.GridFile == "":
		err = fmt.Errorf("marker boundaries need an SU2 GridFile")
	case ip.GridFile == "" && ip.Resolution == "":
		err = fmt.Errorf("either GridFile or Resolution must be set")
	case len(ip.Probe) != 0 && len(ip.Probe) != 2:
		err = fmt.Errorf("probe must be an x,y pair, have %v", ip.Probe)
	}
	return
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.5f\t\t= U0\n", ip.U0)
	fmt.Printf("%8.5e\t\t= D\n", ip.D)
	if ip.GridFile != "" {
		fmt.Printf("[%s]\t\t= Grid File\n", ip.GridFile)
	} else {
		fmt.Printf("[%s/%sk]\t= Las Grid\n", ip.GridDir, ip.Resolution)
	}
	fmt.Printf("[%s]\t\t= Source Type\n", ip.Source.Type)
	switch ip.Source.Type {
	case "gaussian":
		fmt.Printf("(%8.1f,%8.1f), %8.3f\t= Source Center, Sigma\n", ip.Source.X0, ip.Source.Y0, ip.Source.Sigma)
	case "constant":
		fmt.Printf("%8.5f\t\t= Source Value\n", ip.Source.Value)
	}
	fmt.Printf("[%s]\t\t= Boundary\n", ip.Boundary)
	if ip.Boundary == "northing" {
		fmt.Printf("%8.1f\t\t= Northing Threshold\n", ip.NorthingThreshold)
	}
	keys := make([]string, 0, len(ip.FixedMarkers))
	for k := range ip.FixedMarkers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("FixedMarkers[%s] = %v\n", key, ip.FixedMarkers[key])
	}
	fmt.Printf("[%d]\t\t\t= Workers\n", ip.Workers)
}

// InputParameters1D configures the characteristic shallow water run.
type InputParameters1D struct {
	Title        string  `json:"Title"`
	NX           int     `json:"NX"`
	FinalTime    float64 `json:"FinalTime"`
	G            float64 `json:"G"`
	H            float64 `json:"H"`
	LogFrequency int     `json:"LogFrequency"`
}

func NewInputParameters1D() *InputParameters1D {
	return &InputParameters1D{
		Title:        "Non-linear 1-D SWE with arbitrary IC",
		NX:           100,
		FinalTime:    0.5,
		G:            9.81,
		H:            1,
		LogFrequency: 10,
	}
}

func (ip *InputParameters1D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	return ip.Validate()
}

func (ip *InputParameters1D) Validate() (err error) {
	switch {
	case ip.NX < 2:
		err = fmt.Errorf("NX must be at least 2, have %d", ip.NX)
	case ip.G <= 0 || ip.H <= 0:
		err = fmt.Errorf("G and H must be positive, have %v and %v", ip.G, ip.H)
	case ip.FinalTime < 0:
		err = fmt.Errorf("FinalTime must be non negative, have %v", ip.FinalTime)
	}
	return
}

func (ip *InputParameters1D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t= NX\n", ip.NX)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("%8.5f\t\t= G\n", ip.G)
	fmt.Printf("%8.5f\t\t= H\n", ip.H)
}
