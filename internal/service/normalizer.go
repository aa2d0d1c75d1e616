package service

import (
	"regexp"
	"strings"

	"github.com/karemsaeed21/Friends-Recommendation-System/internal/domain"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// normalizeID trims an identifier. Inner whitespace is part of the ID, the
// same as when profiles are read from CSV.
func normalizeID(value string) string {
	return strings.TrimSpace(value)
}

// normalizeIDs trims every ID and drops blanks and repeats while keeping
// first-seen order.
func normalizeIDs(values []string) []string {
	return dedupe(values, normalizeID)
}

// normalizeList sanitizes every value and drops blanks and repeats while
// keeping first-seen order.
func normalizeList(values []string) []string {
	return dedupe(values, sanitizeString)
}

func dedupe(values []string, clean func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = clean(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (in ProfileInput) toDomain() domain.Profile {
	return domain.Profile{
		ID:         normalizeID(in.ID),
		Age:        in.Age,
		Location:   sanitizeString(in.Location),
		Occupation: sanitizeString(in.Occupation),
		Interests:  normalizeList(in.Interests),
		Activities: normalizeList(in.Activities),
		Friends:    normalizeIDs(in.Friends),
	}
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
