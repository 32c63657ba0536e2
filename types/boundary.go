package types

import (
	"strings"
)

type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_In
	BC_Dirichlet
	BC_Far
	BC_Wall
	BC_Neuman
	BC_Out
	BC_Periodic
)

var BCNameMap = map[string]BCFLAG{
	"inflow":    BC_In,
	"in":        BC_In,
	"out":       BC_Out,
	"outflow":   BC_Out,
	"wall":      BC_Wall,
	"far":       BC_Far,
	"dirichlet": BC_Dirichlet,
	"fixed":     BC_Dirichlet,
	"neuman":    BC_Neuman,
	"periodic":  BC_Periodic,
}

func (bf BCFLAG) String() string {
	for name, flag := range bcFlagNames {
		if flag == bf {
			return name
		}
	}
	return "BC_Unknown"
}

var bcFlagNames = map[string]BCFLAG{
	"BC_None":      BC_None,
	"BC_In":        BC_In,
	"BC_Dirichlet": BC_Dirichlet,
	"BC_Far":       BC_Far,
	"BC_Wall":      BC_Wall,
	"BC_Neuman":    BC_Neuman,
	"BC_Out":       BC_Out,
	"BC_Periodic":  BC_Periodic,
}

/*
BCTAG is a boundary marker name as it appears in a mesh file, for example
"Wall-22" or "periodic-left". The text before the first '-' selects the
boundary type, the remainder is a free form label.
*/
type BCTAG string

func NewBCTAG(label string) (bt BCTAG) {
	bt = BCTAG(strings.TrimSpace(label))
	return
}

func (bt BCTAG) split() (name, label string) {
	s := string(bt)
	if ind := strings.Index(s, "-"); ind >= 0 {
		return s[:ind], s[ind+1:]
	}
	return s, ""
}

// GetFLAG returns the boundary type, BC_None when the name is not recognized.
func (bt BCTAG) GetFLAG() (bf BCFLAG) {
	name, _ := bt.split()
	bf = BCNameMap[strings.ToLower(name)]
	return
}

func (bt BCTAG) GetLabel() (label string) {
	_, label = bt.split()
	return
}
