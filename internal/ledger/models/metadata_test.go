package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataKeepsOrderAndRawValues(t *testing.T) {
	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"zeta": 1, "amount": 2500.50, "nested": {"b": [1, 2], "a": null}, "flag": true}`), &m))

	assert.Equal(t, []string{"zeta", "amount", "nested", "flag"}, m.Keys())

	amount, ok := m.Get("amount")
	require.True(t, ok)
	assert.Equal(t, "2500.50", string(amount), "numbers must not be coerced")

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"amount":2500.50,"nested":{"b":[1,2],"a":null},"flag":true}`, string(out))
}

func TestMetadataEqualIgnoresKeyOrder(t *testing.T) {
	var a, b Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":"two"}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"y":"two","x":1}`), &b))
	assert.True(t, a.Equal(b))

	var c Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":"2"}`), &c))
	assert.False(t, a.Equal(c))
}

func TestMetadataRejectsNonObjects(t *testing.T) {
	var m Metadata
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`"text"`), &m))

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, 0, m.Len())
}

func TestPhotoEvidenceValidation(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		present bool
		wantErr string
	}{
		{name: "absent", doc: `{"amount":1}`},
		{name: "valid", doc: `{"photoEvidence":[{"nid":"nid_1","fileName":"a.jpg","photoUrl":"/uploads/a.jpg"}]}`, present: true},
		{name: "not an array", doc: `{"photoEvidence":{"nid":"x"}}`, present: true, wantErr: "must be an array"},
		{name: "null", doc: `{"photoEvidence":null}`, present: true, wantErr: "must be an array"},
		{name: "missing nid", doc: `{"photoEvidence":[{"fileName":"a.jpg"}]}`, present: true, wantErr: "photoEvidence[0].nid is required"},
		{name: "bad timestamp", doc: `{"photoEvidence":[{"nid":"n","uploadedAt":"yesterday"}]}`, present: true, wantErr: "must be an array of evidence objects"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Metadata
			require.NoError(t, json.Unmarshal([]byte(tc.doc), &m))
			_, present, err := m.PhotoEvidence()
			assert.Equal(t, tc.present, present)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestWithPhotoEvidenceAppendsAndKeepsExistingVerbatim(t *testing.T) {
	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"notes":"ok","photoEvidence":[{"nid":"old","photoUrl":"/u/1"}]}`), &m))

	uploadedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	out, err := m.WithPhotoEvidence([]PhotoEvidence{{NID: "new", FileName: "b.jpg", UploadedAt: uploadedAt}})
	require.NoError(t, err)

	evidence, present, err := out.PhotoEvidence()
	require.NoError(t, err)
	require.True(t, present)
	require.Len(t, evidence, 2)
	assert.Equal(t, "old", evidence[0].NID)
	assert.Equal(t, "new", evidence[1].NID)

	raw, _ := out.Get(PhotoEvidenceKey)
	assert.Contains(t, string(raw), `"photoUrl":"/u/1"`)
	assert.Equal(t, []string{"notes", "photoEvidence"}, out.Keys())

	// the source document is untouched
	orig, _, _ := m.PhotoEvidence()
	assert.Len(t, orig, 1)
}
