package curriculum

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// UnitInfo describes a unit derived from the question catalogue.
type UnitInfo struct {
	UnitNumber    string
	DisplayName   string
	LessonNumbers []string
}

// Unit groups a unit's questions, overall and per lesson token.
type Unit struct {
	Info      UnitInfo
	Questions []Question
	Lessons   map[string][]Question
}

// Organized maps a unit token ("1", "2", ...) to its unit.
type Organized map[string]*Unit

// Build organizes a flat question list into units and lessons. Questions whose
// ID has fewer than three dash-separated segments are skipped. A metadata
// entry overrides the generic "Unit N" label of the unit it names; entries
// naming no known unit are ignored. The inputs are not modified.
func Build(questions []Question, units []UnitMeta) Organized {
	organized := make(Organized)

	for _, q := range questions {
		unitNum, lesson, ok := ParseID(q.ID)
		if !ok {
			continue
		}
		u, exists := organized[unitNum]
		if !exists {
			u = &Unit{
				Info: UnitInfo{
					UnitNumber:  unitNum,
					DisplayName: genericName(unitNum),
				},
				Lessons: make(map[string][]Question),
			}
			organized[unitNum] = u
		}
		u.Questions = append(u.Questions, q)
		u.Lessons[lesson] = append(u.Lessons[lesson], q)
	}

	for _, meta := range units {
		if meta.UnitID == "" || meta.DisplayName == "" {
			continue
		}
		if u, ok := organized[strings.TrimPrefix(meta.UnitID, "unit")]; ok {
			u.Info.DisplayName = meta.DisplayName
		}
	}

	for _, u := range organized {
		lessons := make([]string, 0, len(u.Lessons))
		for token := range u.Lessons {
			lessons = append(lessons, token)
		}
		slices.SortFunc(lessons, CompareTokens)
		u.Info.LessonNumbers = lessons
	}

	return organized
}

// ParseID splits a question ID into its unit and lesson tokens.
func ParseID(id string) (unit, lesson string, ok bool) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return "", "", false
	}
	return strings.TrimPrefix(parts[0], "U"), strings.TrimPrefix(parts[1], "L"), true
}

// CompareTokens orders unit or lesson tokens: integers ascend numerically and
// precede non-numeric tokens such as "PC", which compare lexically.
func CompareTokens(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return cmp.Compare(na, nb)
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// UnitNumbers returns the unit tokens in display order.
func (o Organized) UnitNumbers() []string {
	nums := make([]string, 0, len(o))
	for n := range o {
		nums = append(nums, n)
	}
	slices.SortFunc(nums, CompareTokens)
	return nums
}

// TotalQuestions counts every indexed question across all units.
func (o Organized) TotalQuestions() int {
	total := 0
	for _, u := range o {
		total += len(u.Questions)
	}
	return total
}

// Question looks up an indexed question by ID.
func (o Organized) Question(id string) (Question, bool) {
	unitNum, _, ok := ParseID(id)
	if !ok {
		return Question{}, false
	}
	u, ok := o[unitNum]
	if !ok {
		return Question{}, false
	}
	for _, q := range u.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// LessonDisplayName returns the label shown for a lesson token.
func LessonDisplayName(token string) string {
	if token == ProgressCheckToken {
		return "Progress Check"
	}
	return "Lesson " + token
}

func genericName(unitNum string) string {
	return fmt.Sprintf("Unit %s", unitNum)
}
