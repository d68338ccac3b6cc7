package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/academic-records/internal/models"
)

const studentColumns = `id, student_number, first_name, last_name, email, phone, date_of_birth, enrollment_date, status`

func (s *Store) InsertStudent(ctx context.Context, st models.Student) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO students (student_number, first_name, last_name, email, phone, date_of_birth, enrollment_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`,
		st.StudentNumber, st.FirstName, st.LastName, st.Email, st.Phone,
		st.DateOfBirth, st.EnrollmentDate, string(st.Status),
	).Scan(&id)
	return id, err
}

func (s *Store) UpdateStudent(ctx context.Context, st models.Student) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE students
SET student_number = $1, first_name = $2, last_name = $3, email = $4,
    phone = $5, date_of_birth = $6, enrollment_date = $7, status = $8
WHERE id = $9`,
		st.StudentNumber, st.FirstName, st.LastName, st.Email, st.Phone,
		st.DateOfBirth, st.EnrollmentDate, string(st.Status), st.ID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+studentColumns+`
FROM students WHERE id = $1`, id)

	var st models.Student
	err := row.Scan(&st.ID, &st.StudentNumber, &st.FirstName, &st.LastName, &st.Email,
		&st.Phone, &st.DateOfBirth, &st.EnrollmentDate, &st.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.queryStudents(ctx, `
SELECT `+studentColumns+`
FROM students ORDER BY student_number`)
}

func (s *Store) SearchStudents(ctx context.Context, term string) ([]models.Student, error) {
	like := "%" + term + "%"
	return s.queryStudents(ctx, `
SELECT `+studentColumns+`
FROM students
WHERE student_number ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1
ORDER BY student_number`, like)
}

func (s *Store) queryStudents(ctx context.Context, query string, args ...any) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Student
	for rows.Next() {
		var st models.Student
		err := rows.Scan(&st.ID, &st.StudentNumber, &st.FirstName, &st.LastName, &st.Email,
			&st.Phone, &st.DateOfBirth, &st.EnrollmentDate, &st.Status)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
