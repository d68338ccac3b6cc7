package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/academic-records/internal/apperr"
	"github.com/Spok95/academic-records/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// FindActive — активная запись пары (студент, курс); (nil, nil), если её нет.
func (s *Store) FindActive(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, student_id, course_id, enrollment_date, status, grade
FROM enrollments
WHERE student_id = $1 AND course_id = $2 AND status = 'Enrolled'`,
		studentID, courseID)

	var e models.Enrollment
	err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.EnrollmentDate, &e.Status, &e.Grade)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Insert — проверка дубля и вставка в одной транзакции. Гонку параллельных
// вставок добивает частичный уникальный индекс uq_enrollments_active: его
// срабатывание тоже отдаётся как DuplicateEnrollmentError.
func (s *Store) Insert(ctx context.Context, e models.Enrollment) (*models.Enrollment, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx, `
SELECT EXISTS(
    SELECT 1 FROM enrollments
    WHERE student_id = $1 AND course_id = $2 AND status = 'Enrolled'
)`, e.StudentID, e.CourseID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &apperr.DuplicateEnrollmentError{StudentID: e.StudentID, CourseID: e.CourseID}
	}

	err = tx.QueryRowContext(ctx, `
INSERT INTO enrollments (student_id, course_id, enrollment_date, status)
VALUES ($1, $2, $3, $4)
RETURNING id`,
		e.StudentID, e.CourseID, e.EnrollmentDate, string(e.Status),
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &apperr.DuplicateEnrollmentError{StudentID: e.StudentID, CourseID: e.CourseID}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, &apperr.DuplicateEnrollmentError{StudentID: e.StudentID, CourseID: e.CourseID}
		}
		return nil, err
	}
	return &e, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) UpdateStatusGrade(ctx context.Context, id int64, status models.EnrollmentStatus, grade *string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE enrollments SET status = $1, grade = $2 WHERE id = $3`,
		string(status), grade, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return s.queryDetails(ctx, `
SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade,
       s.student_number, s.first_name || ' ' || s.last_name AS student_name,
       c.course_code, c.course_name
FROM enrollments e
JOIN students s ON e.student_id = s.id
JOIN courses c ON e.course_id = c.id
ORDER BY e.enrollment_date DESC`)
}

func (s *Store) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	return s.queryDetails(ctx, `
SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade,
       s.student_number, s.first_name || ' ' || s.last_name AS student_name,
       c.course_code, c.course_name
FROM enrollments e
JOIN students s ON e.student_id = s.id
JOIN courses c ON e.course_id = c.id
WHERE e.student_id = $1
ORDER BY e.enrollment_date DESC`, studentID)
}

// ListEnrolledByCourse — только активные записи, порядок по номеру студента.
func (s *Store) ListEnrolledByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	return s.queryDetails(ctx, `
SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade,
       s.student_number, s.first_name || ' ' || s.last_name AS student_name,
       c.course_code, c.course_name
FROM enrollments e
JOIN students s ON e.student_id = s.id
JOIN courses c ON e.course_id = c.id
WHERE e.course_id = $1 AND e.status = 'Enrolled'
ORDER BY s.student_number`, courseID)
}

func (s *Store) queryDetails(ctx context.Context, query string, args ...any) ([]models.EnrollmentDetail, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EnrollmentDetail
	for rows.Next() {
		var d models.EnrollmentDetail
		err := rows.Scan(&d.ID, &d.StudentID, &d.CourseID, &d.EnrollmentDate, &d.Status, &d.Grade,
			&d.StudentNumber, &d.StudentName, &d.CourseCode, &d.CourseName)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// 23505 = unique_violation; драйверы в проде (pgx) и в тестах (pq) разные.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
