package models

import "time"

type EnrollmentStatus string

const (
	Enrolled  EnrollmentStatus = "Enrolled"
	Withdrawn EnrollmentStatus = "Withdrawn"
	Completed EnrollmentStatus = "Completed"
)

// KnownEnrollmentStatus — допустимые значения статуса записи.
func KnownEnrollmentStatus(s EnrollmentStatus) bool {
	switch s {
	case Enrolled, Withdrawn, Completed:
		return true
	}
	return false
}

// Enrollment — связка студент/курс. Инвариант: на пару (student_id, course_id)
// не больше одной записи в статусе Enrolled (частичный уникальный индекс в БД).
type Enrollment struct {
	ID             int64            `db:"id"`
	StudentID      int64            `db:"student_id"`
	CourseID       int64            `db:"course_id"`
	EnrollmentDate time.Time        `db:"enrollment_date"`
	Status         EnrollmentStatus `db:"status"`
	Grade          *string          `db:"grade"`
}

// EnrollmentDetail — запись с денормализованными полями для списков.
type EnrollmentDetail struct {
	Enrollment
	StudentNumber string `db:"student_number"`
	StudentName   string `db:"student_name"`
	CourseCode    string `db:"course_code"`
	CourseName    string `db:"course_name"`
}

// CourseEnrollmentSummary — агрегат по курсу из представления
// course_enrollment_summary; вход для отчёта по занятости.
type CourseEnrollmentSummary struct {
	CourseID      int64   `db:"course_id"`
	CourseCode    string  `db:"course_code"`
	CourseName    string  `db:"course_name"`
	Credits       int     `db:"credits"`
	LecturerName  *string `db:"lecturer_name"`
	EnrolledCount int     `db:"total_students"`
	Capacity      int     `db:"capacity"`
}

func (c CourseEnrollmentSummary) AvailableSeats() int {
	return c.Capacity - c.EnrolledCount
}
