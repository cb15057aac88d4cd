package user

const RoleStandard = "standard"

// Record is an authentication identity, 1:1 with a client profile.
// PasswordHash is a bcrypt hash, never the plain password.
type Record struct {
	ID           int64
	Username     string
	PasswordHash string
	Enabled      bool
	Roles        []string
	ClientID     int64
}
