package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CurrentVersion is the canonical persisted document version.
const CurrentVersion = "2.0"

// ConvertedFromLegacy marks a document upgraded from the v1 format.
const ConvertedFromLegacy = "legacy"

// Document is the canonical (v2) persisted progress document.
type Document struct {
	Version      string       `json:"version"`
	Metadata     Metadata     `json:"metadata"`
	PersonalData PersonalData `json:"personalData"`
	PeerData     *PeerData    `json:"peerData"`
}

// Metadata identifies the document's owner.
type Metadata struct {
	Username      string `json:"username"`
	Created       string `json:"created"`
	ConvertedFrom string `json:"convertedFrom,omitempty"`
}

// PersonalData holds the current learner's own ledger.
type PersonalData struct {
	Answers  map[string]Answer          `json:"answers"`
	Attempts map[string]int             `json:"attempts,omitempty"`
	Votes    map[string]map[string]Vote `json:"votes,omitempty"`
}

// PeerData holds an imported class snapshot keyed by username.
type PeerData struct {
	Users map[string]LearnerRecord `json:"users"`
}

// LearnerRecord is one learner's ledger as found in a class export.
// Reasons is the older side-table form of Answer.Reasoning.
type LearnerRecord struct {
	Answers  map[string]Answer          `json:"answers"`
	Reasons  map[string]string          `json:"reasons,omitempty"`
	Attempts map[string]int             `json:"attempts,omitempty"`
	Votes    map[string]map[string]Vote `json:"votes,omitempty"`
}

// Answer is a recorded response. On the wire it is either a bare string or
// an object with a value field; both decode to the same shape.
type Answer struct {
	Value     string `json:"value"`
	Reasoning string `json:"reasoning,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"` // unix milliseconds
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		s, err := scalarString(data)
		if err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Answer{Value: s}
		return nil
	}

	var raw struct {
		Value     json.RawMessage `json:"value"`
		Reasoning string          `json:"reasoning"`
		Reason    string          `json:"reason"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answer: %w", err)
	}
	value, err := scalarString(raw.Value)
	if err != nil {
		return fmt.Errorf("answer value: %w", err)
	}
	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return fmt.Errorf("answer timestamp: %w", err)
	}
	*a = Answer{Value: value, Reasoning: raw.Reasoning, Timestamp: ts}
	if a.Reasoning == "" {
		a.Reasoning = raw.Reason
	}
	return nil
}

// Vote is a peer vote on another learner's free response. The wire form is
// either {"type": "..."} or a bare type string.
type Vote struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

func (v *Vote) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Vote{Type: s}
		return nil
	}
	var raw struct {
		Type      string          `json:"type"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("vote: %w", err)
	}
	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return fmt.Errorf("vote timestamp: %w", err)
	}
	*v = Vote{Type: raw.Type, Timestamp: ts}
	return nil
}

// New returns an empty v2 document for username.
func New(username string, created time.Time) *Document {
	return &Document{
		Version: CurrentVersion,
		Metadata: Metadata{
			Username: username,
			Created:  created.UTC().Format(time.RFC3339Nano),
		},
		PersonalData: PersonalData{Answers: make(map[string]Answer)},
	}
}

// Marshal renders the document as indented JSON.
func (d *Document) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

// scalarString accepts a JSON string, number or bool and returns its text.
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v.(type) {
	case float64, bool:
		return string(raw), nil
	default:
		return "", fmt.Errorf("unsupported value %s", raw)
	}
}

// parseTimestamp accepts unix milliseconds or an RFC 3339 string.
func parseTimestamp(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ms, nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return 0, err
		}
		return t.UnixMilli(), nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return int64(f), nil
}
