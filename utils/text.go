package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NotAvailable is stored for attributes a registration page leaves out.
const NotAvailable = "N/A"

var parenthesized = regexp.MustCompile(`\s*\(.*\)`)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeText decomposes accented letters, drops everything outside ASCII,
// upper-cases and trims. "Pesado (até 94,3kg)" becomes "PESADO (ATE 94,3KG)".
func NormalizeText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// StripParenthesized removes everything from the first "(" to the last ")",
// e.g. the weight limits a division name carries.
func StripParenthesized(s string) string {
	return strings.TrimSpace(parenthesized.ReplaceAllString(s, ""))
}

// NormalizeBelt writes "AZUL+ROXA" style combined belts as "AZULEROXA"
// before the usual normalization.
func NormalizeBelt(s string) string {
	return NormalizeText(strings.ReplaceAll(s, "+", "E"))
}

// NormalizeAgeDivision strips the age range and normalizes.
func NormalizeAgeDivision(s string) string {
	return NormalizeText(StripParenthesized(s))
}

// NormalizeWeightDivision writes " - " as "/", strips the weight range and
// normalizes.
func NormalizeWeightDivision(s string) string {
	return NormalizeText(StripParenthesized(strings.ReplaceAll(s, " - ", "/")))
}

// Slug turns a category label into a file name part:
// "ADULTO / MASCULINO / LEVE / AZUL" becomes "adulto-masculino-leve-azul".
func Slug(s string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(NormalizeText(s)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "category"
	}
	return slug
}

// OrNotAvailable returns NotAvailable for blank values.
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
