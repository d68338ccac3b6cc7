package models

type Lecturer struct {
	ID         int64   `db:"id"`
	FullName   string  `db:"full_name"`
	Email      string  `db:"email"`
	Department *string `db:"department"`
}
