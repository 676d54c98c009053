package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountLabeledBeatsLargerBareNumber(t *testing.T) {
	got := extractAmount("Amount: PHP 500.00, ref code 99999999")
	if assert.NotNil(t, got) {
		assert.Equal(t, 500.0, *got)
	}
}

func TestAmountLargestLabeledWins(t *testing.T) {
	got := extractAmount("Amount 100 partial, total amount 2,500.00 due")
	if assert.NotNil(t, got) {
		assert.Equal(t, 2500.0, *got)
	}
}

func TestAmountCurrencyMarked(t *testing.T) {
	got := extractAmount("Payment of PHP 750 received")
	if assert.NotNil(t, got) {
		assert.Equal(t, 750.0, *got)
	}

	got = extractAmount("₱1,234.50 paid today")
	if assert.NotNil(t, got) {
		assert.Equal(t, 1234.5, *got)
	}
}

func TestAmountCommaGroupedFallback(t *testing.T) {
	got := extractAmount("you paid 12,500.00 at the venue")
	if assert.NotNil(t, got) {
		assert.Equal(t, 12500.0, *got)
	}
}

func TestAmountBareFallback(t *testing.T) {
	got := extractAmount("pay 4500 at the booth")
	if assert.NotNil(t, got) {
		assert.Equal(t, 4500.0, *got)
	}
}

func TestAmountNoMatch(t *testing.T) {
	assert.Nil(t, extractAmount("no numbers in this transcript"))
	assert.Nil(t, extractAmount(""))
}
