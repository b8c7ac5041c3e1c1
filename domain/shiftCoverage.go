package domain

import (
	"math"
)

// Coverage is the progress statistic of a shift: how many of the required
// students are actually assigned. Value is capped at Total for progress-bar
// rendering; over-assignment is visible only through Assigned and IsOver.
type Coverage struct {
	Value      int     `json:"value"`
	Total      int     `json:"total"`
	Assigned   int     `json:"assigned"`
	Percentage float64 `json:"percentage"`
	IsOver     bool    `json:"isOver"`
}

// CoverageOf computes the coverage of a shift from a live count of its
// non-cancelled assignments. Pure and side-effect free. A shift requiring
// zero students is treated as requiring one for the percentage only, to keep
// the division defined; the raw RequiredStudents value is untouched.
func CoverageOf(shift *Shift, activeAssignments int) Coverage {
	total := shift.RequiredStudents
	if total < 1 {
		total = 1
	}
	value := activeAssignments
	if value > total {
		value = total
	}
	return Coverage{
		Value:      value,
		Total:      total,
		Assigned:   activeAssignments,
		Percentage: math.Round(float64(activeAssignments)/float64(total)*1000) / 10,
		IsOver:     activeAssignments > shift.RequiredStudents,
	}
}
