package assessment

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// hindiEquivalences lists common Devanagari spelling variations that should
// compare equal. Learners frequently type the colloquial form on the left for
// the standard form on the right (or the reverse), and neither should be
// marked wrong for it.
var hindiEquivalences = [][2]string{
	{"ये", "यह"},
	{"वो", "वह"},
	{"है", "हैं"},
	{"मैने", "मैंने"},
	{"नही", "नहीं"},
	{"कोन", "कौन"},
	{"मे", "में"},
	{"हे", "है"},
}

// stripper removes characters that never change the meaning of an answer:
// zero-width characters that Devanagari keyboards insert inconsistently, and
// sentence punctuation (including the danda).
var stripper = strings.NewReplacer(
	"​", "",
	"‌", "",
	"‍", "",
	"\uFEFF", "",
	".", "",
	",", "",
	"!", "",
	"?", "",
	"।", "",
	";", "",
	":", "",
	"'", "",
	`"`, "",
	"(", "",
	")", "",
)

// Normalize prepares text for comparison: Unicode NFC normalization, trimmed
// whitespace, lowercased (a no-op for Devanagari), with zero-width characters
// and meaning-neutral punctuation removed.
func Normalize(text string) string {
	text = norm.NFC.String(strings.TrimSpace(text))
	text = strings.ToLower(text)
	text = stripper.Replace(text)
	return strings.TrimSpace(text)
}

// hindiEquivalent reports whether response matches expected after
// normalization, allowing the known Hindi spelling variations in either
// direction on either side.
func hindiEquivalent(response, expected string) bool {
	normResponse := Normalize(response)
	normExpected := Normalize(expected)

	if normResponse == normExpected {
		return true
	}

	for _, pair := range hindiEquivalences {
		a, b := pair[0], pair[1]
		if strings.ReplaceAll(normResponse, a, b) == normExpected {
			return true
		}
		if strings.ReplaceAll(normResponse, b, a) == normExpected {
			return true
		}
		if strings.ReplaceAll(normExpected, a, b) == normResponse {
			return true
		}
		if strings.ReplaceAll(normExpected, b, a) == normResponse {
			return true
		}
	}

	return false
}
