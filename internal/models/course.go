package models

type Course struct {
	ID          int64   `db:"id"`
	CourseCode  string  `db:"course_code"`
	CourseName  string  `db:"course_name"`
	Credits     int     `db:"credits"`
	Semester    string  `db:"semester"`
	Capacity    int     `db:"capacity"`
	LecturerID  *int64  `db:"lecturer_id"`
	Description *string `db:"description"`
}
