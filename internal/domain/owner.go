package domain

// Country owns zero or more owners.
type Country struct {
	ID   int64
	Name string
}

// Owner trains pokemon. Gym is the owner's gatekeeping name.
type Owner struct {
	ID        int64
	FirstName string
	LastName  string
	Gym       string
	CountryID *int64
}
