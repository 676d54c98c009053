package receipt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFieldsEndToEnd(t *testing.T) {
	got := ExtractFields("Transfer amount PHP 9,000.00 Ref No. ABC123456 Date: Sep 21, 2025 10:20 AM BDO to BPI")

	if assert.NotNil(t, got.Amount) {
		assert.Equal(t, 9000.0, *got.Amount)
	}
	if assert.NotNil(t, got.Reference) {
		assert.Equal(t, "ABC123456", *got.Reference)
	}
	if assert.NotNil(t, got.DateTime) {
		assert.Equal(t, "2025-09-21T10:20", *got.DateTime)
	}
	if assert.NotNil(t, got.Bank) {
		assert.Equal(t, "BDO", *got.Bank)
	}
}

func TestExtractFieldsIndependentNulls(t *testing.T) {
	// A bank with nothing else still yields the bank; other fields stay nil.
	got := ExtractFields("paid via GCash, salamat po")
	assert.Nil(t, got.Amount)
	assert.Nil(t, got.Reference)
	assert.Nil(t, got.DateTime)
	if assert.NotNil(t, got.Bank) {
		assert.Equal(t, "GCash", *got.Bank)
	}
}

func TestExtractFieldsDateOnlyWithoutTime(t *testing.T) {
	got := ExtractFields("Amount PHP 300 on Sep 21, 2025 via BPI")
	if assert.NotNil(t, got.DateTime) {
		assert.Equal(t, "2025-09-21", *got.DateTime)
	}
}

func TestExtractFieldsEmptyAndGarbage(t *testing.T) {
	for _, text := range []string{"", "@@@@ ???? ////", "lorem ipsum dolor"} {
		got := ExtractFields(text)
		assert.Equal(t, text, got.RawText)
		assert.Nil(t, got.Amount, text)
		assert.Nil(t, got.Reference, text)
		assert.Nil(t, got.DateTime, text)
		assert.Nil(t, got.Bank, text)
	}
}

func TestExtractFieldsIdempotent(t *testing.T) {
	text := "Amount: PHP 500.00, ref code 99999999"
	a := ExtractFields(text)
	b := ExtractFields(text)
	assert.Equal(t, a, b)
}

func TestExtractionJSONShape(t *testing.T) {
	raw, err := json.Marshal(ExtractFields(""))
	assert.NoError(t, err)
	var m map[string]any
	assert.NoError(t, json.Unmarshal(raw, &m))
	assert.Len(t, m, 5)
	for _, k := range []string{"rawText", "suggestedAmount", "suggestedRef", "suggestedDateTime", "suggestedBank"} {
		assert.Contains(t, m, k)
	}
}
