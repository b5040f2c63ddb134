package curriculum

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeQuestions reads a JSON array of questions.
func DecodeQuestions(r io.Reader) ([]Question, error) {
	var questions []Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return questions, nil
}

// DecodeUnits reads a JSON array of unit metadata entries.
func DecodeUnits(r io.Reader) ([]UnitMeta, error) {
	var units []UnitMeta
	if err := json.NewDecoder(r).Decode(&units); err != nil {
		return nil, fmt.Errorf("decode units: %w", err)
	}
	return units, nil
}

// LoadFiles reads the question catalogue and, when unitsPath is non-empty,
// the unit metadata. A missing metadata file leaves units with generic names.
func LoadFiles(questionsPath, unitsPath string) ([]Question, []UnitMeta, error) {
	qf, err := os.Open(questionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer qf.Close()

	questions, err := DecodeQuestions(qf)
	if err != nil {
		return nil, nil, err
	}

	if unitsPath == "" {
		return questions, nil, nil
	}
	uf, err := os.Open(unitsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return questions, nil, nil
		}
		return nil, nil, fmt.Errorf("open unit metadata: %w", err)
	}
	defer uf.Close()

	units, err := DecodeUnits(uf)
	if err != nil {
		return nil, nil, err
	}
	return questions, units, nil
}
