package receipt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateFormatsNormalize(t *testing.T) {
	for _, text := range []string{
		"Sep 21, 2025",
		"Sep-21-2025",
		"2025-09-21",
		"2025/09/21",
		"09/21/2025",
		"21 Sep 2025",
	} {
		span := extractDate(text)
		if assert.NotNil(t, span, text) {
			assert.Equal(t, "2025-09-21", span.iso, text)
		}
	}
}

func TestDateToleratesNoiseBetweenDayAndYear(t *testing.T) {
	span := extractDate("Sep 26 Date and 2025")
	if assert.NotNil(t, span) {
		assert.Equal(t, "2025-09-26", span.iso)
	}
}

func TestDateAmbiguousNumericOrder(t *testing.T) {
	// First number over 12 cannot be a month, so the second one is.
	span := extractDate("21/09/2025")
	if assert.NotNil(t, span) {
		assert.Equal(t, "2025-09-21", span.iso)
	}
}

func TestDateNoMatch(t *testing.T) {
	assert.Nil(t, extractDate("no date in here"))
	assert.Nil(t, extractDate(""))
}

func TestTimeTwelveHourConversion(t *testing.T) {
	cases := map[string]string{
		"at 12:00 AM sharp": "00:00",
		"at 12:00 PM sharp": "12:00",
		"at 10:20 AM":       "10:20",
		"at 9:05 pm":        "21:05",
		"at 10:20 A. M.":    "10:20",
		"done 14:45 today":  "14:45",
	}
	for text, want := range cases {
		got := findTime(text)
		if assert.NotNil(t, got, text) {
			assert.Equal(t, want, *got, text)
		}
	}
}

func TestTimePrefersWindowNearDate(t *testing.T) {
	// A stray earlier time sits well outside the +-window around the date
	// mention; the adjacent one must win.
	text := "opens 08:15 " + strings.Repeat("lorem ipsum filler ", 8) +
		"Date: Sep 21, 2025 10:20 AM at the booth"
	span := extractDate(text)
	if !assert.NotNil(t, span) {
		return
	}
	got := extractTime(text, span)
	if assert.NotNil(t, got) {
		assert.Equal(t, "10:20", *got)
	}
}

func TestTimeFallsBackToWholeText(t *testing.T) {
	text := "paid 10:20 AM " + strings.Repeat("filler words here ", 20) +
		"Date: Sep 21, 2025 at the booth"
	span := extractDate(text)
	if !assert.NotNil(t, span) {
		return
	}
	got := extractTime(text, span)
	if assert.NotNil(t, got) {
		assert.Equal(t, "10:20", *got)
	}
}
