package entity

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Record
	Username  string   `db:"username"`
	Email     string   `db:"email"`
	Role      UserRole `db:"role"`
	Bio       string   `db:"bio"`
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
}
