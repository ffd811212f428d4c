// Package taxonomy maps the raw, inconsistently formatted grade and subject
// tokens found in routes and query strings to the canonical keys used as
// store filter values.
//
// Two key families exist: grade display names ("Grade 1", "Nursery") used by
// the grade table, and class keys ("1st".."5th", "nursery") used by the
// denormalized content.class column. All functions are pure and idempotent
// on their own canonical outputs; unmatched input degrades to a best-effort
// value or to "no constraint", never to an error.
package taxonomy

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	delimiterRegex  = regexp.MustCompile(`[-_:]+`)
	classDelimRegex = regexp.MustCompile(`[-_]+`)
	gradeDigitRegex = regexp.MustCompile(`^grade\s*(\d)$`)
	gradeLooseRegex = regexp.MustCompile(`grade\s*(\d)`)
	gradeAnyRegex   = regexp.MustCompile(`(?i)grade\s*(\d)`)

	shortGradeKeys = map[string]bool{
		"nursery": true,
		"1st":     true,
		"2nd":     true,
		"3rd":     true,
		"4th":     true,
		"5th":     true,
	}

	// short grade key -> grade display name
	displayNames = map[string]string{
		"1st":     "Grade 1",
		"2nd":     "Grade 2",
		"3rd":     "Grade 3",
		"4th":     "Grade 4",
		"5th":     "Grade 5",
		"nursery": "Nursery",
	}

	// grade display name -> content class key
	classKeys = map[string]string{
		"Nursery": "nursery",
		"Grade 1": "1st",
		"Grade 2": "2nd",
		"Grade 3": "3rd",
		"Grade 4": "4th",
		"Grade 5": "5th",
	}

	ordinalKeys = map[string]string{
		"1": "1st",
		"2": "2nd",
		"3": "3rd",
		"4": "4th",
		"5": "5th",
	}

	subjectKeys = []string{"math", "english", "bangla", "science"}
)

// decode undoes percent-encoding, tolerating garbled input.
func decode(raw string) string {
	if s, err := url.QueryUnescape(raw); err == nil {
		return s
	}
	return raw
}

// NormalizeGradeParam converts a raw route parameter such as "Grade-1:1",
// "grade_2" or "nursery" into either a short grade key or a "Grade N"
// display name. Returns false when the input is empty.
func NormalizeGradeParam(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	cleaned := strings.TrimSpace(delimiterRegex.ReplaceAllString(decode(raw), " "))
	if cleaned == "" {
		return "", false
	}

	lower := strings.ToLower(cleaned)
	if shortGradeKeys[lower] {
		return lower, true
	}
	if m := gradeDigitRegex.FindStringSubmatch(lower); m != nil {
		if n := m[1]; n >= "1" && n <= "5" {
			return "Grade " + n, true
		}
	}

	// best-effort fallback: capitalize the first rune
	r, size := utf8.DecodeRuneInString(cleaned)
	return string(unicode.ToUpper(r)) + cleaned[size:], true
}

// DisplayGradeName maps a short grade key to the grade table's display name.
// Unknown input is returned as-is.
func DisplayGradeName(key string) string {
	if name, ok := displayNames[key]; ok {
		return name
	}
	return key
}

// FallbackGradeName is the second-chance lookup used when a display-name
// store query misses: "Grade-1:1" -> "Grade 1".
func FallbackGradeName(name string) string {
	s := delimiterRegex.ReplaceAllString(name, " ")
	if m := gradeAnyRegex.FindStringSubmatch(s); m != nil {
		return "Grade " + m[1]
	}
	return s
}

// NormalizeClassKey converts a raw class token into the content.class filter
// key ("nursery", "1st".."5th"). Trailing ":..." qualifiers are stripped.
// Returns false when the input is empty or a recognized grade number falls
// outside 1..5.
func NormalizeClassKey(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	s := strings.ToLower(decode(raw))
	s = strings.TrimSpace(classDelimRegex.ReplaceAllString(s, " "))
	// strip trailing colon parts: "grade 1:1" -> "grade 1"
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if shortGradeKeys[s] {
		return s, true
	}
	if m := gradeLooseRegex.FindStringSubmatch(s); m != nil {
		key, ok := ordinalKeys[m[1]]
		return key, ok
	}
	return s, true
}

// NormalizeSubjectKey converts a raw subject token into one of the canonical
// subject keys via substring match. Unknown subjects return false, meaning
// the subject constraint should be dropped rather than treated as an error.
func NormalizeSubjectKey(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	s := strings.TrimSpace(strings.ToLower(decode(raw)))
	for _, key := range subjectKeys {
		if strings.Contains(s, key) {
			return key, true
		}
	}
	return "", false
}

// ClassKeyForGrade maps a grade display name to the content.class key.
// Unknown names pass through unchanged so free-form grades stay queryable.
func ClassKeyForGrade(displayName string) string {
	if key, ok := classKeys[displayName]; ok {
		return key
	}
	return displayName
}

// GradeNameForClassKey is the inverse of ClassKeyForGrade.
func GradeNameForClassKey(key string) string {
	return DisplayGradeName(key)
}
