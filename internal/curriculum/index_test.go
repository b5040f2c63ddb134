package curriculum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcq(id string, keys ...string) Question {
	q := Question{ID: id, Type: TypeMultipleChoice, Prompt: "prompt " + id}
	for _, k := range keys {
		q.Choices = append(q.Choices, Choice{Key: k, Value: "choice " + k})
	}
	return q
}

func TestBuild_DisplayNameAndLessons(t *testing.T) {
	questions := []Question{mcq("U1-L1-Q1"), mcq("U1-L1-Q2"), mcq("U1-L2-Q1")}
	units := []UnitMeta{{UnitID: "unit1", DisplayName: "Intro"}}

	org := Build(questions, units)

	require.Contains(t, org, "1")
	u := org["1"]
	assert.Equal(t, "Intro", u.Info.DisplayName)
	assert.Equal(t, []string{"1", "2"}, u.Info.LessonNumbers)
	assert.Len(t, u.Questions, 3)
	assert.Len(t, u.Lessons["1"], 2)
	assert.Len(t, u.Lessons["2"], 1)
}

func TestBuild_GenericNameAndUnmatchedMetadata(t *testing.T) {
	org := Build(
		[]Question{mcq("U2-L1-Q1"), mcq("U3-L1-Q1")},
		[]UnitMeta{{UnitID: "unit3", DisplayName: "Probability"}, {UnitID: "unit9", DisplayName: "Ghost"}},
	)

	assert.Len(t, org, 2)
	assert.Equal(t, "Unit 2", org["2"].Info.DisplayName)
	assert.Equal(t, "Probability", org["3"].Info.DisplayName)
	assert.NotContains(t, org, "9")
}

func TestBuild_DropsMalformedIDs(t *testing.T) {
	questions := []Question{
		mcq("U1-L1-Q1"),
		mcq("U1-L1"),
		mcq(""),
		mcq("garbage"),
		mcq("U4-L2-Q7"),
	}

	org := Build(questions, nil)

	assert.Equal(t, 2, org.TotalQuestions())
	assert.Len(t, org["1"].Questions, 1)
	assert.Len(t, org["4"].Questions, 1)
}

func TestBuild_EveryQuestionInItsUnitAndLesson(t *testing.T) {
	ids := []string{"U1-L1-Q1", "U1-L10-Q1", "U1-L2-Q1", "U1-LPC-Q1", "U2-L1-Q1", "U10-L3-Q4"}
	var questions []Question
	for _, id := range ids {
		questions = append(questions, mcq(id))
	}

	org := Build(questions, nil)

	for _, id := range ids {
		unit, lesson, ok := ParseID(id)
		require.True(t, ok)
		found := 0
		for _, q := range org[unit].Lessons[lesson] {
			if q.ID == id {
				found++
			}
		}
		assert.Equal(t, 1, found, "question %s", id)
	}
	assert.Equal(t, len(ids), org.TotalQuestions())
}

func TestBuild_LessonOrderingWithProgressCheck(t *testing.T) {
	org := Build([]Question{
		mcq("U1-LPC-Q1"), mcq("U1-L10-Q1"), mcq("U1-L2-Q1"), mcq("U1-L1-Q1"),
	}, nil)

	assert.Equal(t, []string{"1", "2", "10", "PC"}, org["1"].Info.LessonNumbers)
}

func TestBuild_Deterministic(t *testing.T) {
	questions := []Question{mcq("U2-L3-Q1"), mcq("U1-L2-Q1"), mcq("U1-L1-Q1"), mcq("U2-LPC-Q1")}
	before := append([]Question(nil), questions...)

	first := Build(questions, nil)
	second := Build(questions, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, before, questions)
}

func TestUnitNumbers(t *testing.T) {
	org := Build([]Question{mcq("U10-L1-Q1"), mcq("U2-L1-Q1"), mcq("U1-L1-Q1")}, nil)
	assert.Equal(t, []string{"1", "2", "10"}, org.UnitNumbers())
}

func TestQuestionLookup(t *testing.T) {
	org := Build([]Question{mcq("U1-L1-Q1", "A", "B")}, nil)

	q, ok := org.Question("U1-L1-Q1")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, q.ChoiceKeys())

	_, ok = org.Question("U1-L1-Q9")
	assert.False(t, ok)
	_, ok = org.Question("bad")
	assert.False(t, ok)
}

func TestChoiceKeys_FromAttachments(t *testing.T) {
	q := Question{
		ID:          "U1-L1-Q1",
		Attachments: []byte(`{"choices":[{"key":"C","value":"x"},{"key":"D","value":"y"}]}`),
	}
	assert.Equal(t, []string{"C", "D"}, q.ChoiceKeys())
}

func TestLessonDisplayName(t *testing.T) {
	assert.Equal(t, "Progress Check", LessonDisplayName("PC"))
	assert.Equal(t, "Lesson 3", LessonDisplayName("3"))
}

func TestDecodeQuestions(t *testing.T) {
	in := `[{"id":"U1-L1-Q1","type":"multiple-choice","prompt":"p","choices":[{"key":"A","value":"1"}]},
	        {"id":"U1-L1-Q2","type":"free-response","prompt":"q","attachments":{"table":[["a"]]}}]`
	questions, err := DecodeQuestions(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, TypeFreeResponse, questions[1].Type)
	assert.NotEmpty(t, questions[1].Attachments)

	_, err = DecodeQuestions(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

func TestCompareTokens(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"10", "2", 1},
		{"3", "3", 0},
		{"-5", "1", -1},
		{"9223372036854775807", "-9223372036854775808", 1},
		{"7", "PC", -1},
		{"PC", "7", 1},
		{"PC", "QZ", -1},
	}
	for _, tt := range tests {
		got := CompareTokens(tt.a, tt.b)
		switch {
		case tt.want < 0:
			assert.Negative(t, got, "%s vs %s", tt.a, tt.b)
		case tt.want > 0:
			assert.Positive(t, got, "%s vs %s", tt.a, tt.b)
		default:
			assert.Zero(t, got, "%s vs %s", tt.a, tt.b)
		}
	}
}
