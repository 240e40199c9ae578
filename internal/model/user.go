package model

// User represents a registered account.  Email is unique across all users
// and compared exactly.  The password is kept opaque, exactly as supplied;
// this data layer makes no attempt at credential security.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PublicUser is the view of a user returned over the API.
type PublicUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public drops the password.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
