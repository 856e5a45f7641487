package standardize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/seafront/seafront/pkg/obs"
)

const (
	// StageColumn holds free-text developmental stage labels.
	StageColumn = "development_stage"

	// AgeColumn receives normalized integer ages.
	AgeColumn = "age_int"
)

var (
	yearsRe  = regexp.MustCompile(`^(\d+)-year-old stage`)
	monthsRe = regexp.MustCompile(`^(\d+)-month-old stage`)
)

// StageMapper maps developmental stage labels to integer ages.
type StageMapper struct {
	// Exact maps coarse life-stage buckets to a representative age.
	Exact map[string]int

	// Drop lists stages that cannot be resolved to an age.
	Drop map[string]struct{}
}

// DefaultStageMapper returns the vocabulary used for census stages.
func DefaultStageMapper() StageMapper {
	exact := map[string]int{
		"newborn stage (0-28 days)": 0,
		"child stage (1-4 yo)":      2,
		"juvenile stage (5-14 yo)":  10,
		"third decade stage":        35,
		"fourth decade stage":       45,
		"fifth decade stage":        55,
		"sixth decade stage":        65,
		"seventh decade stage":      75,
		"eighth decade stage":       85,
		"ninth decade stage":        95,
	}

	drop := make(map[string]struct{})
	for _, s := range []string{
		"adult stage", "late adult stage", "postnatal stage",
		"prime adult stage", "young adult stage", "pediatric stage",
		"infant stage", "middle aged stage", "organogenesis stage",
		"blastula stage", "embryonic stage", "unknown",
		"fourth LMP month stage", "fifth LMP month stage",
		"eighth LMP month stage", "ninth LMP month stage",
	} {
		drop[s] = struct{}{}
	}
	for i := 9; i <= 23; i++ {
		drop[fmt.Sprintf("Carnegie stage %02d", i)] = struct{}{}
	}

	return StageMapper{Exact: exact, Drop: drop}
}

// Age resolves a stage label. The second result is false when the
// stage cannot be mapped to a precise age.
func (m StageMapper) Age(stage string) (int, bool) {
	if age, ok := m.Exact[stage]; ok {
		return age, true
	}
	if _, ok := m.Drop[stage]; ok {
		return 0, false
	}
	switch {
	case strings.Contains(stage, "LMP month stage"),
		strings.HasPrefix(stage, "Carnegie stage"),
		strings.Contains(stage, "week post-fertilization stage"):
		return 0, false
	}
	if match := yearsRe.FindStringSubmatch(stage); match != nil {
		age, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, false
		}
		return age, true
	}
	// sub-year ages truncate to zero
	if monthsRe.MatchString(stage) {
		return 0, true
	}
	return 0, false
}

// Normalize returns a copy of t with an age_int column. Rows whose
// stage is missing or unmappable are removed.
func (m StageMapper) Normalize(t *obs.Table) (*obs.Table, error) {
	stages, ok := t.Column(StageColumn)
	if !ok {
		return nil, obs.MissingColumnError(StageColumn)
	}

	ages := make([]obs.Value, len(stages))
	keep := make([]bool, len(stages))
	for i, s := range stages {
		if s.IsMissing() {
			continue
		}
		if age, ok := m.Age(s.String()); ok {
			ages[i] = obs.Int(age)
			keep[i] = true
		}
	}

	res, err := t.WithColumn(AgeColumn, ages)
	if err != nil {
		return nil, err
	}
	return res.Filter(func(i int) bool { return keep[i] }), nil
}

// NormalizeAge applies DefaultStageMapper to t.
func NormalizeAge(t *obs.Table) (*obs.Table, error) {
	return DefaultStageMapper().Normalize(t)
}
