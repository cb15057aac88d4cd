package client

// Record is the end-user profile. It is distinct from the authentication
// user record and owns all of the client's expenses.
type Record struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}
