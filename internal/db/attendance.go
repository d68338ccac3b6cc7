package db

import (
	"context"

	"github.com/Spok95/academic-records/internal/models"
)

// MarkAttendance — отметка за день; повторная отметка того же дня
// перезаписывает статус и примечание (upsert по (enrollment_id, att_date)).
func (s *Store) MarkAttendance(ctx context.Context, rec models.AttendanceRecord) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO attendance (enrollment_id, att_date, status, remarks)
VALUES ($1, $2, $3, $4)
ON CONFLICT (enrollment_id, att_date)
    DO UPDATE SET status = excluded.status, remarks = excluded.remarks
RETURNING id`,
		rec.EnrollmentID, rec.Date, string(rec.Status), rec.Remarks,
	).Scan(&id)
	return id, err
}

func (s *Store) ListAttendance(ctx context.Context, enrollmentID int64) ([]models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, enrollment_id, att_date, status, remarks
FROM attendance
WHERE enrollment_id = $1
ORDER BY att_date`, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.EnrollmentID, &r.Date, &r.Status, &r.Remarks); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
