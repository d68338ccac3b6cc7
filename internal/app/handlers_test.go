package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/academic-records/internal/auth"
	"github.com/Spok95/academic-records/internal/enrollment"
	"github.com/Spok95/academic-records/internal/models"
	"github.com/Spok95/academic-records/internal/session"
)

type stubUserRepo struct {
	user    models.User // c дайджестом
	updated []models.User
	deleted []int64
}

func (s *stubUserRepo) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	if username != s.user.Username {
		return nil, nil
	}
	u := s.user
	return &u, nil
}
func (s *stubUserRepo) TouchLastLogin(context.Context, int64) error { return nil }
func (s *stubUserRepo) InsertUser(context.Context, models.User) (int64, error) {
	return 1, nil
}
func (s *stubUserRepo) PasswordDigest(context.Context, int64) (string, error) { return s.user.Password, nil }
func (s *stubUserRepo) UpdatePassword(context.Context, int64, string) error   { return nil }

func (s *stubUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if id != s.user.ID {
		return nil, nil
	}
	u := s.user
	u.Password = ""
	return &u, nil
}

func (s *stubUserRepo) UpdateUser(_ context.Context, u models.User) (bool, error) {
	s.updated = append(s.updated, u)
	return u.ID == s.user.ID, nil
}

func (s *stubUserRepo) DeleteUser(_ context.Context, id int64) (bool, error) {
	s.deleted = append(s.deleted, id)
	return id == s.user.ID, nil
}

func (s *stubUserRepo) ListUsers(context.Context) ([]models.User, error) {
	u := s.user
	u.Password = ""
	return []models.User{u}, nil
}

func (s *stubUserRepo) SearchUsers(_ context.Context, term string) ([]models.User, error) {
	if !strings.Contains(s.user.Username, term) {
		return nil, nil
	}
	u := s.user
	u.Password = ""
	return []models.User{u}, nil
}

func (s *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	return username == s.user.Username, nil
}

type stubLedgerRepo struct {
	active map[[2]int64]bool
}

func (s *stubLedgerRepo) FindActive(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	if s.active[[2]int64{studentID, courseID}] {
		return &models.Enrollment{ID: 1, StudentID: studentID, CourseID: courseID, Status: models.Enrolled}, nil
	}
	return nil, nil
}
func (s *stubLedgerRepo) Insert(_ context.Context, e models.Enrollment) (*models.Enrollment, error) {
	s.active[[2]int64{e.StudentID, e.CourseID}] = true
	e.ID = 1
	return &e, nil
}
func (s *stubLedgerRepo) Delete(context.Context, int64) (bool, error) { return false, nil }
func (s *stubLedgerRepo) UpdateStatusGrade(context.Context, int64, models.EnrollmentStatus, *string) (bool, error) {
	return true, nil
}
func (s *stubLedgerRepo) ListAll(context.Context) ([]models.EnrollmentDetail, error) {
	return nil, nil
}
func (s *stubLedgerRepo) ListByStudent(context.Context, int64) ([]models.EnrollmentDetail, error) {
	return nil, nil
}
func (s *stubLedgerRepo) ListEnrolledByCourse(context.Context, int64) ([]models.EnrollmentDetail, error) {
	return nil, nil
}

func newTestServer(t *testing.T) (*Server, *http.ServeMux) {
	t.Helper()
	digest, err := auth.Hash("secret-123")
	if err != nil {
		t.Fatal(err)
	}
	repo := &stubUserRepo{user: models.User{
		ID: 1, Username: "admin", Password: digest,
		FullName: "Admin", Email: "admin@localhost",
		Role: models.RoleAdmin, Status: models.UserActive,
	}}
	srv := &Server{deps: Deps{
		Log:      zap.NewNop().Sugar(),
		Auth:     auth.NewService(repo),
		Sessions: session.NewStore(),
		Ledger:   enrollment.NewLedger(&stubLedgerRepo{active: map[[2]int64]bool{}}),
		Location: time.UTC,
	}}
	mux := http.NewServeMux()
	srv.routes(mux)
	return srv, mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	srv, mux := newTestServer(t)

	// до входа защищённые ручки закрыты
	if rec := do(mux, http.MethodGet, "/api/enrollments", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("без входа ожидали 401, получили %d", rec.Code)
	}

	if rec := do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"wrong"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("неверный пароль: %d", rec.Code)
	}
	if srv.deps.Sessions.IsLoggedIn() {
		t.Fatal("неудачный вход не должен создавать сессию")
	}

	rec := do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("вход: %d %s", rec.Code, rec.Body)
	}
	var u models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatal(err)
	}
	if u.Password != "" {
		t.Error("дайджест не должен уходить клиенту")
	}
	if !srv.deps.Sessions.IsAdmin() {
		t.Error("сессия должна знать роль")
	}

	if rec := do(mux, http.MethodPost, "/api/logout", ""); rec.Code != http.StatusNoContent {
		t.Errorf("logout: %d", rec.Code)
	}
	if srv.deps.Sessions.IsLoggedIn() {
		t.Error("после logout сессия пуста")
	}
}

func TestEnrollEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	rec := do(mux, http.MethodPost, "/api/enrollments", `{"student_id":7,"course_id":42,"enrollment_date":"2025-09-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("enroll: %d %s", rec.Code, rec.Body)
	}

	// дубль — 409 с внятным телом
	rec = do(mux, http.MethodPost, "/api/enrollments", `{"student_id":7,"course_id":42,"enrollment_date":"2025-09-02"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("дубль: %d %s", rec.Code, rec.Body)
	}

	// валидация — 400 с полем
	rec = do(mux, http.MethodPost, "/api/enrollments", `{"student_id":0,"course_id":42,"enrollment_date":"2025-09-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("валидация: %d", rec.Code)
	}
	var body errBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Field != "studentId" {
		t.Errorf("поле ошибки: %+v", body)
	}
}

func TestWithdrawMissing(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	rec := do(mux, http.MethodDelete, "/api/enrollments/999", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("withdraw: %d", rec.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["deleted"] {
		t.Error("несуществующая запись: deleted=false")
	}
}

func TestGradeEndpoint(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	rec := do(mux, http.MethodPost, "/api/grade", `{"marks_obtained":80,"total_marks":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("grade: %d %s", rec.Code, rec.Body)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["letter"] != "A" || body["percent_display"] != "80.00%" {
		t.Errorf("grade тело: %v", body)
	}

	rec = do(mux, http.MethodPost, "/api/grade", `{"marks_obtained":10,"total_marks":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("нулевой total: %d", rec.Code)
	}
}

func TestUserManagementEndpoints(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	rec := do(mux, http.MethodGet, "/api/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("список: %d", rec.Code)
	}
	var users []models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Password != "" {
		t.Fatalf("список пользователей: %+v", users)
	}

	rec = do(mux, http.MethodGet, "/api/users?q=zzz", "")
	users = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 0 {
		t.Errorf("пустой поиск: %+v", users)
	}

	if rec := do(mux, http.MethodGet, "/api/users/1", ""); rec.Code != http.StatusOK {
		t.Errorf("карточка: %d", rec.Code)
	}
	if rec := do(mux, http.MethodGet, "/api/users/9", ""); rec.Code != http.StatusNotFound {
		t.Errorf("несуществующий: %d", rec.Code)
	}

	// кривой email режется валидацией до хранилища
	rec = do(mux, http.MethodPatch, "/api/users/1", `{"username":"admin","full_name":"Admin","email":"oops","role":"Admin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("кривой email: %d %s", rec.Code, rec.Body)
	}
	var body errBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Field != "email" {
		t.Errorf("поле ошибки: %+v", body)
	}

	rec = do(mux, http.MethodPatch, "/api/users/1", `{"username":"admin","full_name":"Head Admin","email":"admin@localhost","role":"Admin"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"updated":true`) {
		t.Fatalf("обновление: %d %s", rec.Code, rec.Body)
	}

	// себя удалить нельзя
	if rec := do(mux, http.MethodDelete, "/api/users/1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("удаление себя: %d", rec.Code)
	}
	rec = do(mux, http.MethodDelete, "/api/users/5", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"deleted":false`) {
		t.Errorf("удаление отсутствующего: %d %s", rec.Code, rec.Body)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	rec := do(mux, http.MethodPost, "/api/users", `{"username":"admin","password":"secret-123","full_name":"Clone","email":"c@uni.edu","role":"User"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("повтор логина: %d %s", rec.Code, rec.Body)
	}
	var body errBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Field != "username" || body.Error != "Username already exists" {
		t.Errorf("тело ошибки: %+v", body)
	}
}

func TestManagementRoutesRequireLogin(t *testing.T) {
	_, mux := newTestServer(t)

	for _, probe := range []struct{ method, path string }{
		{http.MethodPost, "/api/students"},
		{http.MethodDelete, "/api/courses/1"},
		{http.MethodGet, "/api/lecturers"},
	} {
		if rec := do(mux, probe.method, probe.path, "{}"); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s без входа: %d", probe.method, probe.path, rec.Code)
		}
	}
	// управление учётками — только администратору
	srv, mux2 := newTestServer(t)
	do(mux2, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)
	srv.deps.Sessions.Login(models.User{ID: 2, Username: "staff", Role: models.RoleStaff})
	if rec := do(mux2, http.MethodGet, "/api/users", ""); rec.Code != http.StatusForbidden {
		t.Errorf("список пользователей не-админу: %d", rec.Code)
	}
}

func TestRegisterRequiresAdmin(t *testing.T) {
	srv, mux := newTestServer(t)
	do(mux, http.MethodPost, "/api/login", `{"username":"admin","password":"secret-123"}`)

	// понижаем роль в сессии — регистрация должна закрыться
	srv.deps.Sessions.Login(models.User{ID: 2, Username: "staff", Role: models.RoleStaff})
	rec := do(mux, http.MethodPost, "/api/users", `{"username":"new","password":"secret-123","full_name":"N","email":"n@uni.edu","role":"User"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("не-админ: %d", rec.Code)
	}
}
