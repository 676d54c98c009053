package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const monthNamePat = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	// Month-name-first with separators: "Sep-21-2025", "Sep 21, 2025".
	dateMonthFirstRE = regexp.MustCompile(`(?i)\b` + monthNamePat + `[\s\-.,]+([0-9]{1,2})(?:st|nd|rd|th)?[\s\-.,]+([0-9]{4})\b`)
	// Month-name with intervening noise: OCR often inserts stray words
	// between day and year ("Sep 26 Date and 2025").
	dateMonthNoiseRE = regexp.MustCompile(`(?i)\b` + monthNamePat + `[\s\-.,]+([0-9]{1,2})(?:st|nd|rd|th)?[^0-9]{1,40}([0-9]{4})\b`)
	dateISORE        = regexp.MustCompile(`\b([0-9]{4})[-/]([0-9]{1,2})[-/]([0-9]{1,2})\b`)
	dateNumericRE    = regexp.MustCompile(`\b([0-9]{1,2})[/\-.]([0-9]{1,2})[/\-.]([0-9]{4})\b`)
	// Day-first with month name: "21 Sep 2025".
	dateDayFirstRE = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)?[\s\-.,]+` + monthNamePat + `[\s\-.,]+([0-9]{4})\b`)

	time12RE = regexp.MustCompile(`(?i)\b([0-9]{1,2})\s*[:.]\s*([0-5][0-9])(?:\s*[:.]\s*[0-5][0-9])?\s*([ap])\s*\.?\s*m\b`)
	time24RE = regexp.MustCompile(`\b([01]?[0-9]|2[0-3])\s*:\s*([0-5][0-9])(?::[0-5][0-9])?\b`)
)

var monthsByPrefix = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// extractDate tries the ordered format patterns and returns the normalized
// ISO date plus the span of the match, or nil. First matching pattern wins.
func extractDate(text string) *dateSpan {
	if m := dateMonthFirstRE.FindStringSubmatchIndex(text); m != nil {
		return monthNameSpan(text, m, 1, 2, 3)
	}
	if m := dateMonthNoiseRE.FindStringSubmatchIndex(text); m != nil {
		return monthNameSpan(text, m, 1, 2, 3)
	}
	if m := dateISORE.FindStringSubmatchIndex(text); m != nil {
		y := group(text, m, 1)
		mo, _ := strconv.Atoi(group(text, m, 2))
		d, _ := strconv.Atoi(group(text, m, 3))
		return isoSpan(y, mo, d, m[0], m[1])
	}
	if m := dateNumericRE.FindStringSubmatchIndex(text); m != nil {
		a, _ := strconv.Atoi(group(text, m, 1))
		b, _ := strconv.Atoi(group(text, m, 2))
		y := group(text, m, 3)
		// Ambiguous DD/MM vs MM/DD: the first number is the month when it
		// can be one, otherwise the second.
		mo, d := a, b
		if a > 12 {
			mo, d = b, a
		}
		return isoSpan(y, mo, d, m[0], m[1])
	}
	if m := dateDayFirstRE.FindStringSubmatchIndex(text); m != nil {
		d, _ := strconv.Atoi(group(text, m, 1))
		mo := monthsByPrefix[strings.ToLower(group(text, m, 2))[:3]]
		return isoSpan(group(text, m, 3), mo, d, m[0], m[1])
	}
	return nil
}

func monthNameSpan(text string, m []int, moIdx, dIdx, yIdx int) *dateSpan {
	name := strings.ToLower(group(text, m, moIdx))
	if len(name) < 3 {
		return nil
	}
	mo := monthsByPrefix[name[:3]]
	d, _ := strconv.Atoi(group(text, m, dIdx))
	return isoSpan(group(text, m, yIdx), mo, d, m[0], m[1])
}

func isoSpan(year string, month, day, start, end int) *dateSpan {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	return &dateSpan{
		iso:   fmt.Sprintf("%s-%02d-%02d", year, month, day),
		start: start,
		end:   end,
	}
}

func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

// extractTime finds a time of day, preferring one contextually adjacent to
// the matched date span before scanning the whole text. Output is 24-hour
// "HH:MM".
func extractTime(text string, span *dateSpan) *string {
	if span != nil {
		lo := span.start - 80
		if lo < 0 {
			lo = 0
		}
		hi := span.end + 160
		if hi > len(text) {
			hi = len(text)
		}
		if t := findTime(text[lo:hi]); t != nil {
			return t
		}
	}
	return findTime(text)
}

func findTime(s string) *string {
	for _, m := range time12RE.FindAllStringSubmatch(s, -1) {
		h, _ := strconv.Atoi(m[1])
		if h < 1 || h > 12 {
			continue
		}
		mi, _ := strconv.Atoi(m[2])
		// Standard midnight/noon rules: 12 AM is 00, 12 PM stays 12.
		h = h % 12
		if strings.EqualFold(m[3], "p") {
			h += 12
		}
		out := fmt.Sprintf("%02d:%02d", h, mi)
		return &out
	}
	if m := time24RE.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		out := fmt.Sprintf("%02d:%02d", h, mi)
		return &out
	}
	return nil
}
