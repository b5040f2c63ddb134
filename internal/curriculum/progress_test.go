package curriculum

import "testing"

func TestProgress(t *testing.T) {
	org := Build([]Question{mcq("U1-L1-Q1"), mcq("U1-L1-Q2"), mcq("U1-L2-Q1")}, nil)
	u := org["1"]

	tests := []struct {
		name     string
		answered map[string]bool
		want     Progress
	}{
		{"none", nil, Progress{Completed: 0, Total: 3, Percent: 0}},
		{"one", map[string]bool{"U1-L1-Q1": true}, Progress{Completed: 1, Total: 3, Percent: 33}},
		{"two", map[string]bool{"U1-L1-Q1": true, "U1-L2-Q1": true}, Progress{Completed: 2, Total: 3, Percent: 67}},
		{"other units ignored", map[string]bool{"U2-L1-Q1": true}, Progress{Completed: 0, Total: 3, Percent: 0}},
		{"all", map[string]bool{"U1-L1-Q1": true, "U1-L1-Q2": true, "U1-L2-Q1": true}, Progress{Completed: 3, Total: 3, Percent: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := u.Progress(tt.answered)
			if got != tt.want {
				t.Errorf("Progress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProgress_EmptyUnit(t *testing.T) {
	u := &Unit{}
	got := u.Progress(map[string]bool{"U1-L1-Q1": true})
	if got.Percent != 0 || got.Total != 0 {
		t.Errorf("empty unit progress = %+v, want zero", got)
	}
}

func TestProgress_Monotonic(t *testing.T) {
	ids := []string{"U1-L1-Q1", "U1-L1-Q2", "U1-L2-Q1", "U1-L2-Q2", "U1-LPC-Q1", "U1-LPC-Q2", "U1-LPC-Q3"}
	var questions []Question
	for _, id := range ids {
		questions = append(questions, mcq(id))
	}
	u := Build(questions, nil)["1"]

	answered := map[string]bool{}
	prev := u.Progress(answered)
	for _, id := range ids {
		answered[id] = true
		got := u.Progress(answered)
		if got.Completed < prev.Completed {
			t.Fatalf("completed decreased from %d to %d", prev.Completed, got.Completed)
		}
		if got.Percent < 0 || got.Percent > 100 {
			t.Fatalf("percent %d out of range", got.Percent)
		}
		prev = got
	}
	if prev.Percent != 100 {
		t.Errorf("final percent = %d, want 100", prev.Percent)
	}
}

func TestLessonCompleted(t *testing.T) {
	u := Build([]Question{mcq("U1-L1-Q1"), mcq("U1-L1-Q2"), mcq("U1-LPC-Q1")}, nil)["1"]

	answered := map[string]bool{"U1-L1-Q1": true}
	if u.LessonCompleted("1", answered) {
		t.Error("lesson 1 should not be complete with one of two answered")
	}
	answered["U1-L1-Q2"] = true
	if !u.LessonCompleted("1", answered) {
		t.Error("lesson 1 should be complete")
	}
	if u.LessonCompleted("PC", answered) {
		t.Error("progress check should not be complete")
	}
	if u.LessonCompleted("7", answered) {
		t.Error("unknown lesson should not be complete")
	}
}
