package db

import (
	"context"

	"github.com/Spok95/academic-records/internal/models"
)

func (s *Store) AddAssessment(ctx context.Context, rec models.AssessmentRecord) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO assessments (enrollment_id, assessment_type, marks_obtained, total_marks, assess_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`,
		rec.EnrollmentID, rec.AssessmentType, rec.MarksObtained, rec.TotalMarks, rec.Date,
	).Scan(&id)
	return id, err
}

func (s *Store) ListAssessments(ctx context.Context, enrollmentID int64) ([]models.AssessmentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, enrollment_id, assessment_type, marks_obtained, total_marks, assess_date
FROM assessments
WHERE enrollment_id = $1
ORDER BY assess_date, id`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AssessmentRecord
	for rows.Next() {
		var r models.AssessmentRecord
		err := rows.Scan(&r.ID, &r.EnrollmentID, &r.AssessmentType, &r.MarksObtained, &r.TotalMarks, &r.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
