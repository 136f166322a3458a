// Package validate contains pure validators for Italian phone numbers and
// tax codes (codice fiscale). Empty input is always valid; "required"
// enforcement belongs to the caller.
package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	separators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

	// Italian numbering plan: mobiles start with 3, landlines with 0.
	mobileRe   = regexp.MustCompile(`^3\d{8,9}$`)
	landlineRe = regexp.MustCompile(`^0\d{5,10}$`)

	// Codice fiscale structure: surname+name letters, year, month letter,
	// day (sex-encoded), place code, check letter. The check letter is NOT
	// verified here; only the structural pattern is (known gap, kept on
	// purpose so previously accepted values stay accepted).
	taxIDRe = regexp.MustCompile(`^[A-Z]{6}\d{2}[ABCDEHLMPRST]\d{2}[A-Z]\d{3}[A-Z]$`)
)

// IsValidPhone reports whether input looks like an Italian mobile or
// landline number, with an optional +39/0039 country prefix.
func IsValidPhone(input string) bool {
	s := separators.Replace(strings.TrimSpace(input))
	if s == "" {
		return true
	}

	if strings.HasPrefix(s, "+39") {
		s = s[3:]
	} else if strings.HasPrefix(s, "0039") {
		s = s[4:]
	}

	return mobileRe.MatchString(s) || landlineRe.MatchString(s)
}

// IsValidTaxID reports whether input is structurally a codice fiscale.
// Case-insensitive. Day-of-month encodes sex: 1-31 male, 41-71 female.
func IsValidTaxID(input string) bool {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return true
	}
	if len(s) != 16 {
		return false
	}
	if !taxIDRe.MatchString(s) {
		return false
	}

	day, err := strconv.Atoi(s[9:11])
	if err != nil {
		return false
	}
	return (day >= 1 && day <= 31) || (day >= 41 && day <= 71)
}
