package document

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func TestNormalize_LegacyExample(t *testing.T) {
	raw := []byte(`{
		"username": "Apple_Rabbit",
		"users": {"Apple_Rabbit": {"answers": {"U1-L1-Q1": "A"}}},
		"exportTime": "2023-01-01T00:00:00Z"
	}`)

	doc, gen, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, GenerationLegacy, gen)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, "Apple_Rabbit", doc.Metadata.Username)
	assert.Equal(t, ConvertedFromLegacy, doc.Metadata.ConvertedFrom)
	assert.Equal(t, "2023-01-01T00:00:00Z", doc.Metadata.Created)
	assert.Equal(t, "A", doc.PersonalData.Answers["U1-L1-Q1"].Value)
	assert.Nil(t, doc.PeerData)
}

func TestNormalize_LegacyWithoutExportTime(t *testing.T) {
	raw := []byte(`{"username": "bo", "users": {"bo": {"answers": {"U1-L1-Q1": {"value": "B", "reasoning": "because"}}}}}`)

	doc, _, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, fixedNow.Format(time.RFC3339Nano), doc.Metadata.Created)
	assert.Equal(t, Answer{Value: "B", Reasoning: "because"}, doc.PersonalData.Answers["U1-L1-Q1"])
}

func TestNormalize_LegacyMissingUserEntry(t *testing.T) {
	raw := []byte(`{"username": "ghost", "users": {"someone": {"answers": {"U1-L1-Q1": "A"}}}}`)

	doc, gen, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, GenerationLegacy, gen)
	assert.NotNil(t, doc.PersonalData.Answers)
	assert.Empty(t, doc.PersonalData.Answers)
}

func TestNormalize_LegacyKeepsEveryAnswer(t *testing.T) {
	raw := []byte(`{"username": "u", "users": {"u": {"answers": {
		"U1-L1-Q1": "A", "U1-L1-Q2": {"value": "C"}, "U2-L1-Q1": "free text", "U2-L1-Q2": 4
	}}}}`)

	doc, _, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)

	assert.Len(t, doc.PersonalData.Answers, 4)
	assert.Equal(t, "4", doc.PersonalData.Answers["U2-L1-Q2"].Value)
	assert.Equal(t, "free text", doc.PersonalData.Answers["U2-L1-Q1"].Value)
}

func TestNormalize_V2PassThrough(t *testing.T) {
	raw := []byte(`{
		"version": "2.0",
		"metadata": {"username": "kim", "created": "2024-01-02T03:04:05Z"},
		"personalData": {"answers": {"U1-L1-Q1": {"value": "D", "reasoning": "r"}}, "attempts": {"U1-L1-Q1": 2}},
		"peerData": {"users": {"lee": {"answers": {"U1-L1-Q1": "A"}}}}
	}`)

	doc, gen, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, GenerationV2, gen)
	assert.Equal(t, "kim", doc.Metadata.Username)
	assert.Equal(t, "2024-01-02T03:04:05Z", doc.Metadata.Created)
	assert.Empty(t, doc.Metadata.ConvertedFrom)
	assert.Equal(t, 2, doc.PersonalData.Attempts["U1-L1-Q1"])
	require.NotNil(t, doc.PeerData)
	assert.Equal(t, "A", doc.PeerData.Users["lee"].Answers["U1-L1-Q1"].Value)
}

func TestNormalize_V2NullPeerData(t *testing.T) {
	raw := []byte(`{"version": "2.0", "metadata": {"username": "kim"}, "personalData": {"answers": {}}, "peerData": null}`)

	doc, _, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)
	assert.Nil(t, doc.PeerData)
}

func TestNormalize_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `not json`},
		{"array", `[]`},
		{"empty object", `{}`},
		{"username only", `{"username": "x"}`},
		{"users only", `{"users": {}}`},
		{"metadata without username", `{"metadata": {}, "username": "x", "users": {}}`},
		{"newer major version", `{"version": "3.0", "metadata": {"username": "x"}}`},
		{"garbage version", `{"version": "two", "metadata": {"username": "x"}}`},
		{"negative attempts", `{"metadata": {"username": "x"}, "personalData": {"attempts": {"q": -1}}}`},
		{"legacy empty username", `{"username": "", "users": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := NormalizeAt([]byte(tt.raw), fixedNow)
			require.Error(t, err)
			assert.Nil(t, doc)

			var fe *FormatError
			assert.True(t, errors.As(err, &fe), "want *FormatError, got %T", err)
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	raw := []byte(`{"username": "u", "users": {"u": {"answers": {"U1-L1-Q1": "A"}}}}`)
	before := append([]byte(nil), raw...)

	_, _, err := NormalizeAt(raw, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, before, raw)
}

func TestNormalize_RoundTrip(t *testing.T) {
	doc := New("sam", fixedNow)
	doc.PersonalData.Answers["U1-L1-Q1"] = Answer{Value: "A", Reasoning: "why", Timestamp: 1700000000000}
	doc.PersonalData.Attempts = map[string]int{"U1-L1-Q1": 1}

	b, err := doc.Marshal()
	require.NoError(t, err)

	got, gen, err := NormalizeAt(b, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, GenerationV2, gen)
	assert.Equal(t, doc, got)
}

func TestAnswerUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Answer
	}{
		{"bare string", `"B"`, Answer{Value: "B"}},
		{"object", `{"value": "C", "reasoning": "r", "timestamp": 1700000000000}`, Answer{Value: "C", Reasoning: "r", Timestamp: 1700000000000}},
		{"reason alias", `{"value": "C", "reason": "r"}`, Answer{Value: "C", Reasoning: "r"}},
		{"iso timestamp", `{"value": "C", "timestamp": "2023-01-01T00:00:00Z"}`, Answer{Value: "C", Timestamp: 1672531200000}},
		{"numeric value", `{"value": 12.5}`, Answer{Value: "12.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Answer
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVoteUnmarshal(t *testing.T) {
	var votes map[string]Vote
	require.NoError(t, json.Unmarshal([]byte(`{"a": {"type": "helpful"}, "b": "unclear"}`), &votes))
	assert.Equal(t, "helpful", votes["a"].Type)
	assert.Equal(t, "unclear", votes["b"].Type)
}
