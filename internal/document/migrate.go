package document

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/mod/semver"

	"github.com/peerstat/peerstat/internal/schema"
)

// Generation identifies which persisted format a raw document was in.
type Generation string

const (
	GenerationV2     Generation = "v2"
	GenerationLegacy Generation = "legacy"
)

// FormatError reports a document that matches neither supported generation.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unrecognized document format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unrecognized document format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

var v2Schema = schema.Schema{
	Name: "progress-document-v2",
	Definition: `{
		"type": "object",
		"required": ["metadata"],
		"properties": {
			"version": {"type": "string"},
			"metadata": {
				"type": "object",
				"required": ["username"],
				"properties": {
					"username": {"type": "string", "minLength": 1},
					"created": {"type": "string"},
					"convertedFrom": {"type": "string"}
				}
			},
			"personalData": {
				"type": ["object", "null"],
				"properties": {
					"answers": {"type": ["object", "null"]},
					"attempts": {
						"type": ["object", "null"],
						"additionalProperties": {"type": "integer", "minimum": 0}
					},
					"votes": {"type": ["object", "null"]}
				}
			},
			"peerData": {
				"type": ["object", "null"],
				"properties": {"users": {"type": ["object", "null"]}}
			}
		}
	}`,
}

// legacyDocument is the v1 export shape.
type legacyDocument struct {
	Username   string                  `json:"username"`
	Users      map[string]legacyRecord `json:"users"`
	ExportTime string                  `json:"exportTime"`
}

type legacyRecord struct {
	Answers map[string]Answer `json:"answers"`
}

// Normalize classifies raw as a v2 or legacy document and returns it in the
// v2 shape. See NormalizeAt.
func Normalize(raw []byte) (*Document, Generation, error) {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt is Normalize with an explicit clock. A document carrying
// metadata.username is v2 and passes through; one with username and users
// but no metadata is legacy and is converted, taking its creation time from
// exportTime or now. Anything else is a *FormatError.
func NormalizeAt(raw []byte, now time.Time) (*Document, Generation, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, "", &FormatError{Reason: "not a JSON object", Err: err}
	}

	if hasMetadataUsername(probe["metadata"]) {
		doc, err := decodeV2(raw)
		if err != nil {
			return nil, "", err
		}
		return doc, GenerationV2, nil
	}

	_, hasUsername := probe["username"]
	_, hasUsers := probe["users"]
	_, hasMetadata := probe["metadata"]
	if hasUsername && hasUsers && !hasMetadata {
		doc, err := convertLegacy(raw, now)
		if err != nil {
			return nil, "", err
		}
		return doc, GenerationLegacy, nil
	}

	return nil, "", &FormatError{Reason: "missing required fields"}
}

func hasMetadataUsername(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var meta struct {
		Username any `json:"username"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return false
	}
	s, ok := meta.Username.(string)
	return ok && s != ""
}

func decodeV2(raw []byte) (*Document, error) {
	instance, err := schema.Decode(raw)
	if err != nil {
		return nil, &FormatError{Reason: "v2 document", Err: err}
	}
	if err := schema.Validate(v2Schema, instance); err != nil {
		return nil, &FormatError{Reason: "v2 document", Err: err}
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &FormatError{Reason: "v2 document", Err: err}
	}

	if doc.Version == "" {
		doc.Version = CurrentVersion
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.PersonalData.Answers == nil {
		doc.PersonalData.Answers = make(map[string]Answer)
	}
	return &doc, nil
}

// checkVersion rejects documents written by a newer major format.
func checkVersion(version string) error {
	v := "v" + version
	if !semver.IsValid(v) {
		return &FormatError{Reason: fmt.Sprintf("invalid version %q", version)}
	}
	if semver.Compare(semver.Major(v), semver.Major("v"+CurrentVersion)) > 0 {
		return &FormatError{Reason: fmt.Sprintf("unsupported version %q", version)}
	}
	return nil
}

func convertLegacy(raw []byte, now time.Time) (*Document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, &FormatError{Reason: "legacy document", Err: err}
	}
	if legacy.Username == "" {
		return nil, &FormatError{Reason: "legacy document has an empty username"}
	}

	answers := make(map[string]Answer)
	if rec, ok := legacy.Users[legacy.Username]; ok {
		for qid, a := range rec.Answers {
			answers[qid] = a
		}
	}

	created := legacy.ExportTime
	if created == "" {
		created = now.UTC().Format(time.RFC3339Nano)
	}

	return &Document{
		Version: CurrentVersion,
		Metadata: Metadata{
			Username:      legacy.Username,
			Created:       created,
			ConvertedFrom: ConvertedFromLegacy,
		},
		PersonalData: PersonalData{Answers: answers},
	}, nil
}
