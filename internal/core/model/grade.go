package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is a bouldering V-scale grade, V0 through V10.
type Grade int

const (
	GradeMin Grade = 0
	GradeMax Grade = 10
)

// String renders the grade in V-scale notation.
func (grade Grade) String() string {
	return fmt.Sprintf("V%d", int(grade))
}

// Valid reports whether the grade is within the supported scale.
func (grade Grade) Valid() bool {
	return grade >= GradeMin && grade <= GradeMax
}

// ParseGrade converts V-scale notation back into a Grade.
func ParseGrade(value string) (Grade, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "V")
	number, err := strconv.Atoi(trimmed)
	if err != nil {
		return GradeMin, fmt.Errorf("parse grade %q: %w", value, err)
	}
	grade := Grade(number)
	if !grade.Valid() {
		return GradeMin, fmt.Errorf("grade %q out of range V0..V10", value)
	}
	return grade, nil
}

// Grades lists every supported grade in ascending order.
func Grades() []Grade {
	grades := make([]Grade, 0, int(GradeMax-GradeMin)+1)
	for grade := GradeMin; grade <= GradeMax; grade++ {
		grades = append(grades, grade)
	}
	return grades
}

// GradeNames lists every supported grade as display strings.
func GradeNames() []string {
	grades := Grades()
	names := make([]string, len(grades))
	for i, grade := range grades {
		names[i] = grade.String()
	}
	return names
}
