package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/academic-records/internal/models"
)

const userColumns = `id, username, password, full_name, email, role, status, created_at, last_login`

// FindUserByUsername — вместе с дайджестом: нужен auth для проверки пароля.
// (nil, nil), если пользователя нет.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users WHERE username = $1`, username)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT `+userColumns+`
FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.Password = ""
	return u, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, userID)
	return err
}

func (s *Store) InsertUser(ctx context.Context, u models.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO users (username, password, full_name, email, role, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`,
		u.Username, u.Password, u.FullName, u.Email, string(u.Role), string(u.Status),
	).Scan(&id)
	return id, err
}

// UpdateUser — профиль без пароля; пароль меняется только через
// UpdatePassword, чтобы дайджест не перезаписывался случайно.
func (s *Store) UpdateUser(ctx context.Context, u models.User) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE users SET full_name = $1, email = $2, role = $3, status = $4
WHERE id = $5`,
		u.FullName, u.Email, string(u.Role), string(u.Status), u.ID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) PasswordDigest(ctx context.Context, userID int64) (string, error) {
	var digest string
	err := s.db.QueryRowContext(ctx, `SELECT password FROM users WHERE id = $1`, userID).Scan(&digest)
	return digest, err
}

func (s *Store) UpdatePassword(ctx context.Context, userID int64, digest string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, digest, userID)
	return err
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.queryUsers(ctx, `
SELECT `+userColumns+`
FROM users ORDER BY username`)
}

func (s *Store) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	like := "%" + term + "%"
	return s.queryUsers(ctx, `
SELECT `+userColumns+`
FROM users
WHERE username ILIKE $1 OR full_name ILIKE $1
ORDER BY username`, like)
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		u.Password = "" // дайджест наружу не отдаём
		out = append(out, *u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(r rowScanner) (*models.User, error) {
	var u models.User
	err := r.Scan(&u.ID, &u.Username, &u.Password, &u.FullName, &u.Email,
		&u.Role, &u.Status, &u.CreatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
