package domain

type SignUpInput struct {
	Name     string
	Email    string
	Password string
}

// AuthInput is the email and password pair submitted on login.
type AuthInput struct {
	Email    string
	Password string
}
