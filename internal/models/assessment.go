package models

import "time"

// AssessmentRecord — оценка за работу (Quiz/Assignment/Midterm/Final — тип
// свободный). Процент и буквенная оценка всегда выводятся из баллов,
// отдельно не хранятся.
type AssessmentRecord struct {
	ID             int64     `db:"id"`
	EnrollmentID   int64     `db:"enrollment_id"`
	AssessmentType string    `db:"assessment_type"`
	MarksObtained  float64   `db:"marks_obtained"`
	TotalMarks     float64   `db:"total_marks"`
	Date           time.Time `db:"assess_date"`
}
