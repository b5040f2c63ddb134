package curriculum

import "math"

// Progress summarizes how much of a unit a learner has answered.
type Progress struct {
	Completed int
	Total     int
	Percent   int
}

// Progress counts the unit's questions present in answered. Percent is
// rounded to the nearest integer and is 0 for an empty unit.
func (u *Unit) Progress(answered map[string]bool) Progress {
	p := Progress{Total: len(u.Questions)}
	for _, q := range u.Questions {
		if answered[q.ID] {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}

// LessonCompleted reports whether every question of a lesson is answered.
// An unknown or empty lesson is never complete.
func (u *Unit) LessonCompleted(token string, answered map[string]bool) bool {
	questions := u.Lessons[token]
	if len(questions) == 0 {
		return false
	}
	for _, q := range questions {
		if !answered[q.ID] {
			return false
		}
	}
	return true
}
