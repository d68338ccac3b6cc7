package db

import (
	"context"
	"fmt"
)

// SeedAdmin — bootstrap-администратор при пустой таблице users; digest уже
// захэширован (auth.Hash), сюда пароль в открытом виде не попадает.
func (s *Store) SeedAdmin(ctx context.Context, username, digest string) (bool, error) {
	if username == "" || digest == "" {
		return false, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, fmt.Errorf("seed admin: count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (username, password, full_name, email, role, status)
VALUES ($1, $2, 'Administrator', 'admin@localhost', 'Admin', 'Active')`,
		username, digest)
	if err != nil {
		return false, fmt.Errorf("seed admin: insert: %w", err)
	}
	return true, nil
}
