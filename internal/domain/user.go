package domain

// User is the account returned by /users/me.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// CandidateRegistration is the payload for POST /users/candidates.
type CandidateRegistration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// CompanyRegistration is the payload for POST /users/companies.
type CompanyRegistration struct {
	CandidateRegistration
	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`
	CountryCode        string `json:"country_code"`
}

// EmailAvailability is the response of /users/check-email.
type EmailAvailability struct {
	Available bool `json:"available"`
}
