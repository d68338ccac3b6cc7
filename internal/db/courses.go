package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/academic-records/internal/models"
)

const courseColumns = `id, course_code, course_name, credits, semester, capacity, lecturer_id, description`

func (s *Store) InsertCourse(ctx context.Context, c models.Course) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO courses (course_code, course_name, credits, semester, capacity, lecturer_id, description)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`,
		c.CourseCode, c.CourseName, c.Credits, c.Semester, c.Capacity, c.LecturerID, c.Description,
	).Scan(&id)
	return id, err
}

func (s *Store) UpdateCourse(ctx context.Context, c models.Course) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE courses
SET course_code = $1, course_name = $2, credits = $3, semester = $4,
    capacity = $5, lecturer_id = $6, description = $7
WHERE id = $8`,
		c.CourseCode, c.CourseName, c.Credits, c.Semester, c.Capacity,
		c.LecturerID, c.Description, c.ID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+courseColumns+`
FROM courses WHERE id = $1`, id)

	var c models.Course
	err := row.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credits, &c.Semester,
		&c.Capacity, &c.LecturerID, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+courseColumns+`
FROM courses ORDER BY course_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		var c models.Course
		err := rows.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credits, &c.Semester,
			&c.Capacity, &c.LecturerID, &c.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
