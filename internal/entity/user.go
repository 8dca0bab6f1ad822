package entity

// Access levels are ordinal: a higher level includes every permission of the
// levels below it.
const (
	AccessEmployee = 1
	AccessManager  = 2
	AccessAdmin    = 3
)

type User struct {
	ID          int    `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email_id"`
	Company     string `json:"company"`
	AccessLevel int    `json:"access_level"`
}

func (u User) CanBook() bool {
	return u.AccessLevel >= AccessEmployee
}

func (u User) CanManageEvents() bool {
	return u.AccessLevel >= AccessManager
}

func (u User) IsAdmin() bool {
	return u.AccessLevel >= AccessAdmin
}
