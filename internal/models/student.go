package models

import "time"

type StudentStatus string

const (
	StudentActive    StudentStatus = "Active"
	StudentInactive  StudentStatus = "Inactive"
	StudentGraduated StudentStatus = "Graduated"
)

type Student struct {
	ID             int64         `db:"id"`
	StudentNumber  string        `db:"student_number"`
	FirstName      string        `db:"first_name"`
	LastName       string        `db:"last_name"`
	Email          string        `db:"email"`
	Phone          *string       `db:"phone"`
	DateOfBirth    *time.Time    `db:"date_of_birth"`
	EnrollmentDate time.Time     `db:"enrollment_date"`
	Status         StudentStatus `db:"status"`
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
