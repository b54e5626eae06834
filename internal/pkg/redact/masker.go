package redact

import (
	"regexp"
	"strings"
)

const (
	phoneMask = "**********"
	idMask    = "************"
	emailMask = "*****@*****"
	textMask  = "*****"
)

var (
	// loose phone shape: optional +91 prefix, 8-10 digits starting 6-9
	phoneRegexp = regexp.MustCompile(`(?:\+91[- ]?)?[6-9][0-9]{7,9}`)
	idRegexp    = regexp.MustCompile(`\b[0-9]{4}\s?[0-9]{4}\s?[0-9]{4}\b`)
	emailRegexp = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameRegexp  = regexp.MustCompile(`(?i)(my name is|i am|this is)\s+[a-z ]+`)
	locRegexp   = regexp.MustCompile(`(?i)(from|live in|village is|residing in|sarnamu|surname|adress is)\s+[a-z ]+`)
)

// Masker replaces personal data in English text with fixed width mask literals.
// Pattern categories are applied in a fixed order: phone, national ID, email,
// self declared name, self declared location. It keeps no state between calls.
type Masker struct {
}

// NewMasker creates Masker instance
func NewMasker() *Masker {
	return &Masker{}
}

// Mask returns text with personal data replaced by mask literals
func (m *Masker) Mask(text string) string {
	text = maskDigitBound(text, phoneRegexp, phoneMask)
	text = idRegexp.ReplaceAllString(text, idMask)
	text = emailRegexp.ReplaceAllString(text, emailMask)
	text = nameRegexp.ReplaceAllString(text, "${1} "+textMask)
	text = locRegexp.ReplaceAllString(text, "${1} "+textMask)
	return text
}

// maskDigitBound replaces matches that are not part of a longer digit run
func maskDigitBound(text string, re *regexp.Regexp, mask string) string {
	idxs := re.FindAllStringIndex(text, -1)
	if idxs == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, li := range idxs {
		s, e := li[0], li[1]
		if s > 0 && isDigit(text[s-1]) {
			continue
		}
		if e < len(text) && isDigit(text[e]) {
			continue
		}
		b.WriteString(text[last:s])
		b.WriteString(mask)
		last = e
	}
	b.WriteString(text[last:])
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
