package domainname

import (
	"strings"
)

// Built-in checker names.
const (
	NotEmpty               = "dncheck_not_empty_domain_name"
	RFC1035PreferredSyntax = "dncheck_rfc1035_preferred_syntax"
	NoConsecutiveHyphens   = "dncheck_no_consecutive_hyphens"
	SingleDigitLabelsOnly  = "dncheck_single_digit_labels_only"
	NoIDNPunycode          = "dncheck_no_idn_punycode"
	MaxLength              = "dncheck_max_length"
)

const (
	maxNameLength  = 253
	maxLabelLength = 63
	enumSuffix     = "e164.arpa"
	punycodePrefix = "xn--"
)

// DefaultRegistry returns a registry holding every built-in checker.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, b := range []struct {
		name string
		fn   CheckerFunc
	}{
		{NotEmpty, checkNotEmpty},
		{RFC1035PreferredSyntax, checkPreferredSyntax},
		{NoConsecutiveHyphens, checkNoConsecutiveHyphens},
		{SingleDigitLabelsOnly, checkSingleDigitLabels},
		{NoIDNPunycode, checkNoPunycode},
		{MaxLength, checkMaxLength},
	} {
		if err := r.Register(b.name, b.fn); err != nil {
			panic(err)
		}
	}
	return r
}

func invalid(name, reason string) error {
	return &InvalidNameError{Name: name, Reason: reason}
}

func labels(name string) []string {
	return strings.Split(name, ".")
}

func checkNotEmpty(name string) error {
	if name == "" {
		return invalid(name, "empty name")
	}
	for _, l := range labels(name) {
		if l == "" {
			return invalid(name, "empty label")
		}
	}
	return nil
}

// checkPreferredSyntax follows the RFC 1035 preferred name syntax as relaxed
// by RFC 1123: labels may start with a digit.
func checkPreferredSyntax(name string) error {
	for _, l := range labels(name) {
		if l == "" {
			return invalid(name, "empty label")
		}
		if len(l) > maxLabelLength {
			return invalid(name, "label too long")
		}
		if l[0] == '-' || l[len(l)-1] == '-' {
			return invalid(name, "label starts or ends with a hyphen")
		}
		for i := 0; i < len(l); i++ {
			if !isLDH(l[i]) {
				return invalid(name, "label holds a character other than a letter, digit or hyphen")
			}
		}
	}
	return nil
}

func isLDH(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

func checkNoConsecutiveHyphens(name string) error {
	if strings.Contains(name, "--") {
		return invalid(name, "consecutive hyphens")
	}
	return nil
}

// checkSingleDigitLabels applies to ENUM names only: every label below
// e164.arpa must be one digit.
func checkSingleDigitLabels(name string) error {
	lower := strings.ToLower(name)
	if lower != enumSuffix && !strings.HasSuffix(lower, "."+enumSuffix) {
		return nil
	}
	prefix := strings.TrimSuffix(strings.TrimSuffix(lower, enumSuffix), ".")
	if prefix == "" {
		return nil
	}
	for _, l := range labels(prefix) {
		if len(l) != 1 || l[0] < '0' || l[0] > '9' {
			return invalid(name, "ENUM label is not a single digit")
		}
	}
	return nil
}

func checkNoPunycode(name string) error {
	for _, l := range labels(strings.ToLower(name)) {
		if strings.HasPrefix(l, punycodePrefix) {
			return invalid(name, "IDN punycode label")
		}
	}
	return nil
}

func checkMaxLength(name string) error {
	if len(name) > maxNameLength {
		return invalid(name, "name too long")
	}
	return nil
}
