package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGradeRoundTrip(t *testing.T) {
	for _, grade := range Grades() {
		parsed, err := ParseGrade(grade.String())
		require.NoError(t, err)
		assert.Equal(t, grade, parsed)
	}
}

func TestParseGradeAcceptsWhitespace(t *testing.T) {
	parsed, err := ParseGrade("  V7 ")
	require.NoError(t, err)
	assert.Equal(t, Grade(7), parsed)
}

func TestParseGradeRejectsInvalid(t *testing.T) {
	for _, value := range []string{"", "V", "V11", "V-1", "7a", "hard"} {
		_, err := ParseGrade(value)
		assert.Error(t, err, "value %q", value)
	}
}

func TestGradeNames(t *testing.T) {
	names := GradeNames()
	require.Len(t, names, 11)
	assert.Equal(t, "V0", names[0])
	assert.Equal(t, "V10", names[10])
}

func TestPlanClamp(t *testing.T) {
	assert.Equal(t, Plan{Reps: MinReps, WeightKg: 5}, Plan{Reps: 0, WeightKg: 5}.Clamp())
	assert.Equal(t, Plan{Reps: MaxReps}, Plan{Reps: 25}.Clamp())
	assert.Equal(t, Plan{Reps: 5, WeightKg: -2.5}, Plan{Reps: 5, WeightKg: -2.5}.Clamp())
}
