package db

import (
	"context"

	"github.com/Spok95/academic-records/internal/models"
)

// CourseEnrollmentCounts — агрегаты для отчёта по занятости из представления
// course_enrollment_summary.
func (s *Store) CourseEnrollmentCounts(ctx context.Context) ([]models.CourseEnrollmentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT course_id, course_code, course_name, credits, lecturer_name, total_students, capacity
FROM course_enrollment_summary
ORDER BY course_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CourseEnrollmentSummary
	for rows.Next() {
		var c models.CourseEnrollmentSummary
		err := rows.Scan(&c.CourseID, &c.CourseCode, &c.CourseName, &c.Credits,
			&c.LecturerName, &c.EnrolledCount, &c.Capacity)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
