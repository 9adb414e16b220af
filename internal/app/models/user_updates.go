package models

// ProfileUpdate carries the mutable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	FirstName         *string
	LastName          *string
	PhoneNumber       *string
	Bio               *string
	ProfilePicture    *string
	Credentials       *InstructorCredentials
	Location          *Location
	PreferredLocation *Location
	ExperienceLevel   *ExperienceLevel
}

// InstructorFilters are the optional instructor search criteria. Zero values
// mean "no filter".
type InstructorFilters struct {
	City          string
	State         string
	Country       string
	MinRate       float64
	MaxRate       float64
	BeltRank      string
	MinExperience int
}
