package users

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

func (r Role) Valid() bool { return r == RoleCustomer || r == RoleSeller }

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is what register and login hand back to the client.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
