package models

import "time"

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
	RoleUser  Role = "User"
)

type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

// User — учётная запись приложения. Password хранит только bcrypt-дайджест
// и очищается перед выдачей наружу (см. auth.Service).
type User struct {
	ID          int64      `db:"id"`
	Username    string     `db:"username"`
	Password    string     `db:"password"`
	FullName    string     `db:"full_name"`
	Email       string     `db:"email"`
	Role        Role       `db:"role"`
	Status      UserStatus `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	LastLoginAt *time.Time `db:"last_login"`
}
