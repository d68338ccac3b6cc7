// Package session — состояние "кто сейчас вошёл" на процесс. Один слот:
// приложение обслуживает одного интерактивного пользователя за раз.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/Spok95/academic-records/internal/models"
)

// Store создаётся в main и передаётся по ссылке; глобального состояния нет.
// Login/Logout — взаимоисключающие критические секции.
type Store struct {
	mu      sync.Mutex
	user    *models.User
	loginAt time.Time

	now func() time.Time // подменяется в тестах
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Login сохраняет снимок пользователя и время входа.
func (s *Store) Login(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Password = ""
	s.user = &u
	s.loginAt = s.now()
}

func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.loginAt = time.Time{}
}

// Current — снимок текущего пользователя; false, если никто не вошёл.
func (s *Store) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsLoggedIn() bool {
	_, ok := s.Current()
	return ok
}

// IsAdmin — роль сравнивается без учёта регистра.
func (s *Store) IsAdmin() bool {
	return s.HasRole(string(models.RoleAdmin))
}

func (s *Store) HasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && strings.EqualFold(string(s.user.Role), role)
}

// DurationMinutes — длительность сессии в целых минутах; 0, если входа нет.
func (s *Store) DurationMinutes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.loginAt.IsZero() {
		return 0
	}
	return int64(s.now().Sub(s.loginAt) / time.Minute)
}
