// Package peer merges class snapshots and aggregates answers, consensus and
// votes across learners.
package peer

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/peerstat/peerstat/internal/document"
	"github.com/peerstat/peerstat/internal/ledger"
	"github.com/peerstat/peerstat/internal/schema"
)

// Snapshot maps usernames to imported peer ledgers.
type Snapshot map[string]*ledger.Ledger

// ShapeError reports a class export that does not have the expected shape.
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("class export: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

var exportSchema = schema.Schema{
	Name: "class-export",
	Definition: `{
		"type": "object",
		"required": ["users"],
		"properties": {
			"users": {
				"type": "object",
				"additionalProperties": {
					"type": ["object", "null"],
					"properties": {
						"answers": {"type": ["object", "null"]},
						"reasons": {"type": ["object", "null"]},
						"attempts": {"type": ["object", "null"]},
						"votes": {"type": ["object", "null"]}
					}
				}
			}
		}
	}`,
}

// ParseSnapshot decodes a class export ({"users": {...}}). The entry for
// exclude, normally the current learner, is dropped.
func ParseSnapshot(raw []byte, exclude string) (Snapshot, error) {
	instance, err := schema.Decode(raw)
	if err != nil {
		return nil, &ShapeError{Err: err}
	}
	if err := schema.Validate(exportSchema, instance); err != nil {
		return nil, &ShapeError{Err: err}
	}

	var export struct {
		Users map[string]*document.LearnerRecord `json:"users"`
	}
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, &ShapeError{Err: err}
	}

	snap := make(Snapshot, len(export.Users))
	for username, rec := range export.Users {
		if username == "" || username == exclude || rec == nil {
			continue
		}
		snap[username] = ledger.FromRecord(username, *rec)
	}
	return snap, nil
}

// FromPeerData rebuilds a snapshot from a document's peerData.
func FromPeerData(pd *document.PeerData, exclude string) Snapshot {
	snap := make(Snapshot)
	if pd == nil {
		return snap
	}
	for username, rec := range pd.Users {
		if username == "" || username == exclude {
			continue
		}
		snap[username] = ledger.FromRecord(username, rec)
	}
	return snap
}

// Usernames returns the snapshot's usernames in sorted order.
func (s Snapshot) Usernames() []string {
	return slices.Sorted(maps.Keys(s))
}

// PeerData exports the snapshot in the document's peerData shape.
func (s Snapshot) PeerData() *document.PeerData {
	pd := &document.PeerData{Users: make(map[string]document.LearnerRecord, len(s))}
	for username, l := range s {
		pd.Users[username] = l.Record()
	}
	return pd
}
