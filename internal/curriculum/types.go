package curriculum

import "encoding/json"

// QuestionType distinguishes how a question is answered.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeFreeResponse   QuestionType = "free-response"
)

// ProgressCheckToken is the lesson token used for a unit's progress check.
const ProgressCheckToken = "PC"

// Choice is one selectable option of a multiple-choice question.
type Choice struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Question is an immutable catalogue entry. IDs follow U<unit>-L<lesson>-Q<seq>.
type Question struct {
	ID          string          `json:"id"`
	Type        QuestionType    `json:"type"`
	Prompt      string          `json:"prompt"`
	Choices     []Choice        `json:"choices,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
}

// ChoiceKeys returns the question's choice keys in catalogue order. Choices
// nested under attachments are used when the question has none of its own.
func (q Question) ChoiceKeys() []string {
	choices := q.Choices
	if len(choices) == 0 && len(q.Attachments) > 0 {
		var att struct {
			Choices []Choice `json:"choices"`
		}
		if err := json.Unmarshal(q.Attachments, &att); err == nil {
			choices = att.Choices
		}
	}
	keys := make([]string, 0, len(choices))
	for _, c := range choices {
		keys = append(keys, c.Key)
	}
	return keys
}

// UnitMeta supplies a display name for a unit, keyed as "unit<N>".
type UnitMeta struct {
	UnitID      string `json:"unitId"`
	DisplayName string `json:"displayName"`
}
