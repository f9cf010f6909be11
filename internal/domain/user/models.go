package user

// User is the profile the backend returns for the authenticated account.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

type RegisterParams struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResult is the client-side view of a registration. Token is mapped
// from the server's "jwt" response field.
type RegisterResult struct {
	Success bool
	Token   string
	Message string
}
