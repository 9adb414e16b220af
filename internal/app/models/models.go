package models

// RoleType defines the user role type
type RoleType string

const (
	RoleInstructor RoleType = "instructor"
	RoleStudent    RoleType = "student"
)

// Valid reports whether the role is one of the known roles.
func (r RoleType) Valid() bool {
	return r == RoleInstructor || r == RoleStudent
}

// IsInstructor reports whether the role is the instructor role.
func (r RoleType) IsInstructor() bool {
	return r == RoleInstructor
}

// IsStudent reports whether the role is the student role.
func (r RoleType) IsStudent() bool {
	return r == RoleStudent
}

// ExperienceLevel defines a student's self-reported training level
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Valid reports whether the experience level is a known value.
func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}
