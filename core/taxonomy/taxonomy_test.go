package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGradeParam(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "empty", in: "", want: "", wantOK: false},
		{name: "delimiters only", in: "-_:", want: "", wantOK: false},
		{name: "short key kept", in: "1st", want: "1st", wantOK: true},
		{name: "short key lowered", in: "Nursery", want: "nursery", wantOK: true},
		{name: "grade word", in: "grade 1", want: "Grade 1", wantOK: true},
		{name: "dash delimiter", in: "Grade-1", want: "Grade 1", wantOK: true},
		{name: "underscore delimiter", in: "grade_1", want: "Grade 1", wantOK: true},
		{name: "trailing qualifier", in: "Grade-1:1", want: "Grade 1 1", wantOK: true},
		{name: "percent encoded", in: "grade%202", want: "Grade 2", wantOK: true},
		{name: "out of range digit", in: "grade 7", want: "Grade 7", wantOK: true},
		{name: "fallback capitalized", in: "kindergarten", want: "Kindergarten", wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeGradeParam(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeGradeParamIdempotent(t *testing.T) {
	for _, key := range []string{"nursery", "1st", "2nd", "3rd", "4th", "5th"} {
		got, ok := NormalizeGradeParam(key)
		assert.True(t, ok)
		assert.Equal(t, key, got)
	}
	for _, name := range []string{"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5"} {
		got, ok := NormalizeGradeParam(name)
		assert.True(t, ok)
		assert.Equal(t, name, got)
	}
}

func TestDisplayGradeName(t *testing.T) {
	assert.Equal(t, "Grade 1", DisplayGradeName("1st"))
	assert.Equal(t, "Nursery", DisplayGradeName("nursery"))
	// unknown input passes through
	assert.Equal(t, "Grade 3", DisplayGradeName("Grade 3"))
	assert.Equal(t, "Kindergarten", DisplayGradeName("Kindergarten"))
}

func TestFallbackGradeName(t *testing.T) {
	assert.Equal(t, "Grade 1", FallbackGradeName("Grade-1:1"))
	assert.Equal(t, "Grade 2", FallbackGradeName("GRADE_2"))
	assert.Equal(t, "Playgroup", FallbackGradeName("Playgroup"))
}

func TestNormalizeClassKey(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "empty", in: "", want: "", wantOK: false},
		{name: "nursery", in: "Nursery", want: "nursery", wantOK: true},
		{name: "ordinal kept", in: "3rd", want: "3rd", wantOK: true},
		{name: "grade to ordinal", in: "grade 1", want: "1st", wantOK: true},
		{name: "dashed grade", in: "Grade-1", want: "1st", wantOK: true},
		{name: "trailing qualifier stripped", in: "grade-1:1", want: "1st", wantOK: true},
		{name: "out of range", in: "grade 9", want: "", wantOK: false},
		{name: "free-form preserved", in: "playgroup", want: "playgroup", wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeClassKey(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// delimiter variants of the same grade must all resolve to one filter value
func TestClassKeyDelimiterTolerance(t *testing.T) {
	want, ok := NormalizeClassKey("Grade 1")
	assert.True(t, ok)
	for _, in := range []string{"Grade-1:1", "grade_1", "Grade 1", "grade%201"} {
		got, ok := NormalizeClassKey(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeSubjectKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "math", want: "math", wantOK: true},
		{in: "Mathematics101", want: "math", wantOK: true},
		{in: "English Basics", want: "english", wantOK: true},
		{in: "bangla-basics", want: "bangla", wantOK: true},
		{in: "General Science", want: "science", wantOK: true},
		{in: "xyz", want: "", wantOK: false}, // constraint dropped, not an error
		{in: "", want: "", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := NormalizeSubjectKey(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClassKeyGradeNameRoundTrip(t *testing.T) {
	for name, key := range map[string]string{
		"Nursery": "nursery",
		"Grade 1": "1st",
		"Grade 5": "5th",
	} {
		assert.Equal(t, key, ClassKeyForGrade(name))
		assert.Equal(t, name, GradeNameForClassKey(key))
	}
	// unmapped names stay queryable
	assert.Equal(t, "Playgroup", ClassKeyForGrade("Playgroup"))
}
