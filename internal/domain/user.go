package domain

// User is the identity returned by the remote current-user endpoint.
// Only the contact fields are used for pre-filling the listing form.
type User struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
