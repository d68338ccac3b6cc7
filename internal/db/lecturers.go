package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/academic-records/internal/models"
)

func (s *Store) InsertLecturer(ctx context.Context, l models.Lecturer) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO lecturers (full_name, email, department)
VALUES ($1, $2, $3)
RETURNING id`,
		l.FullName, l.Email, l.Department,
	).Scan(&id)
	return id, err
}

func (s *Store) GetLecturerByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, full_name, email, department
FROM lecturers WHERE id = $1`, id)

	var l models.Lecturer
	err := row.Scan(&l.ID, &l.FullName, &l.Email, &l.Department)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) ListLecturers(ctx context.Context) ([]models.Lecturer, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, full_name, email, department
FROM lecturers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lecturer
	for rows.Next() {
		var l models.Lecturer
		if err := rows.Scan(&l.ID, &l.FullName, &l.Email, &l.Department); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) DeleteLecturer(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lecturers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
