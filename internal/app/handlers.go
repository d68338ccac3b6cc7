package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/academic-records/internal/apperr"
	"github.com/Spok95/academic-records/internal/ctxutil"
	"github.com/Spok95/academic-records/internal/grading"
	"github.com/Spok95/academic-records/internal/models"
	"github.com/Spok95/academic-records/internal/observability"
	"github.com/Spok95/academic-records/internal/report"
)

const dateLayout = "2006-01-02"

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	mux.HandleFunc("GET /api/enrollments", s.withLogin(s.handleListEnrollments))
	mux.HandleFunc("POST /api/enrollments", s.withLogin(s.handleEnroll))
	mux.HandleFunc("DELETE /api/enrollments/{id}", s.withLogin(s.handleWithdraw))
	mux.HandleFunc("PATCH /api/enrollments/{id}", s.withLogin(s.handleUpdateEnrollment))

	mux.HandleFunc("GET /api/enrollments/{id}/attendance", s.withLogin(s.handleListAttendance))
	mux.HandleFunc("POST /api/attendance", s.withLogin(s.handleMarkAttendance))
	mux.HandleFunc("GET /api/enrollments/{id}/assessments", s.withLogin(s.handleListAssessments))
	mux.HandleFunc("POST /api/assessments", s.withLogin(s.handleAddAssessment))

	mux.HandleFunc("POST /api/grade", s.withLogin(s.handleGrade))
	mux.HandleFunc("GET /api/report/enrollment", s.withLogin(s.handleReport))

	mux.HandleFunc("GET /api/students", s.withLogin(s.handleListStudents))
	mux.HandleFunc("POST /api/students", s.withLogin(s.handleCreateStudent))
	mux.HandleFunc("GET /api/students/{id}", s.withLogin(s.handleGetStudent))
	mux.HandleFunc("PATCH /api/students/{id}", s.withLogin(s.handleUpdateStudent))
	mux.HandleFunc("DELETE /api/students/{id}", s.withLogin(s.handleDeleteStudent))

	mux.HandleFunc("GET /api/courses", s.withLogin(s.handleListCourses))
	mux.HandleFunc("POST /api/courses", s.withLogin(s.handleCreateCourse))
	mux.HandleFunc("GET /api/courses/{id}", s.withLogin(s.handleGetCourse))
	mux.HandleFunc("PATCH /api/courses/{id}", s.withLogin(s.handleUpdateCourse))
	mux.HandleFunc("DELETE /api/courses/{id}", s.withLogin(s.handleDeleteCourse))

	mux.HandleFunc("GET /api/lecturers", s.withLogin(s.handleListLecturers))
	mux.HandleFunc("POST /api/lecturers", s.withLogin(s.handleCreateLecturer))
	mux.HandleFunc("GET /api/lecturers/{id}", s.withLogin(s.handleGetLecturer))
	mux.HandleFunc("DELETE /api/lecturers/{id}", s.withLogin(s.handleDeleteLecturer))

	mux.HandleFunc("GET /api/users", s.withAdmin(s.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}", s.withAdmin(s.handleGetUser))
	mux.HandleFunc("POST /api/users", s.withAdmin(s.handleRegisterUser))
	mux.HandleFunc("PATCH /api/users/{id}", s.withAdmin(s.handleUpdateUser))
	mux.HandleFunc("DELETE /api/users/{id}", s.withAdmin(s.handleDeleteUser))
	mux.HandleFunc("POST /api/users/{id}/password", s.withLogin(s.handleChangePassword))
	mux.HandleFunc("POST /api/users/{id}/reset_password", s.withAdmin(s.handleResetPassword))
}

// --- guards ---

func (s *Server) withLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.deps.Sessions.Current()
		if !ok {
			s.writeJSON(w, http.StatusUnauthorized, errBody{Error: "login required"})
			return
		}
		next(w, r.WithContext(ctxutil.WithUserID(r.Context(), u.ID)))
	}
}

func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withLogin(func(w http.ResponseWriter, r *http.Request) {
		if !s.deps.Sessions.IsAdmin() {
			s.writeJSON(w, http.StatusForbidden, errBody{Error: "admin role required"})
			return
		}
		next(w, r)
	})
}

// --- auth/session ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctxutil.WithOp(r.Context(), "login"))
	defer cancel()

	u, err := s.deps.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.deps.Sessions.Login(*u)
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.deps.Sessions.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	type resp struct {
		LoggedIn        bool         `json:"logged_in"`
		User            *models.User `json:"user,omitempty"`
		DurationMinutes int64        `json:"duration_minutes"`
		IsAdmin         bool         `json:"is_admin"`
	}
	u, ok := s.deps.Sessions.Current()
	out := resp{LoggedIn: ok, DurationMinutes: s.deps.Sessions.DurationMinutes(), IsAdmin: s.deps.Sessions.IsAdmin()}
	if ok {
		out.User = &u
	}
	s.writeJSON(w, http.StatusOK, out)
}

// --- enrollments ---

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	q := r.URL.Query()
	var (
		rows []models.EnrollmentDetail
		err  error
	)
	switch {
	case q.Get("student_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("student_id"), 10, 64); err != nil {
			s.error(w, r, apperr.Validation("studentId", "Valid student must be selected"))
			return
		}
		rows, err = s.deps.Ledger.ListByStudent(ctx, id)
	case q.Get("course_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("course_id"), 10, 64); err != nil {
			s.error(w, r, apperr.Validation("courseId", "Valid course must be selected"))
			return
		}
		rows, err = s.deps.Ledger.ListByCourse(ctx, id)
	default:
		rows, err = s.deps.Ledger.List(ctx)
	}
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID      int64  `json:"student_id"`
		CourseID       int64  `json:"course_id"`
		EnrollmentDate string `json:"enrollment_date"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	var date time.Time
	if req.EnrollmentDate != "" {
		var err error
		date, err = time.ParseInLocation(dateLayout, req.EnrollmentDate, s.deps.Location)
		if err != nil {
			s.error(w, r, apperr.Validation("enrollmentDate", "Enrollment date must be YYYY-MM-DD"))
			return
		}
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	e, err := s.deps.Ledger.Enroll(ctx, req.StudentID, req.CourseID, date)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	deleted, err := s.deps.Ledger.Withdraw(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleUpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string  `json:"status"`
		Grade  *string `json:"grade"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	updated, err := s.deps.Ledger.UpdateStatusAndGrade(ctx, id, models.EnrollmentStatus(req.Status), req.Grade)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// --- attendance / assessments ---

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	recs, err := s.deps.Store.ListAttendance(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EnrollmentID int64   `json:"enrollment_id"`
		Date         string  `json:"date"`
		Status       string  `json:"status"`
		Remarks      *string `json:"remarks"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.EnrollmentID <= 0 {
		s.error(w, r, apperr.Validation("enrollmentId", "Valid enrollment must be selected"))
		return
	}
	day, err := time.ParseInLocation(dateLayout, req.Date, s.deps.Location)
	if err != nil {
		s.error(w, r, apperr.Validation("date", "Date must be YYYY-MM-DD"))
		return
	}
	if !models.KnownAttendanceStatus(models.AttendanceStatus(req.Status)) {
		s.error(w, r, apperr.Validation("status", "Status must be Present, Absent or Late"))
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Store.MarkAttendance(ctx, models.AttendanceRecord{
		EnrollmentID: req.EnrollmentID,
		Date:         day,
		Status:       models.AttendanceStatus(req.Status),
		Remarks:      req.Remarks,
	})
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	recs, err := s.deps.Store.ListAssessments(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}

	// процент и буква всегда выводятся, в БД их нет
	type row struct {
		models.AssessmentRecord
		Percentage     *float64 `json:"percentage,omitempty"`
		PercentDisplay string   `json:"percent_display,omitempty"`
		Letter         string   `json:"letter,omitempty"`
	}
	out := make([]row, 0, len(recs))
	for _, rec := range recs {
		item := row{AssessmentRecord: rec}
		if res, err := grading.ForMarks(rec.MarksObtained, rec.TotalMarks); err == nil {
			pct := res.Percentage
			item.Percentage = &pct
			item.PercentDisplay = res.PercentDisplay()
			item.Letter = res.Letter
		}
		out = append(out, item)
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddAssessment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EnrollmentID   int64   `json:"enrollment_id"`
		AssessmentType string  `json:"assessment_type"`
		MarksObtained  float64 `json:"marks_obtained"`
		TotalMarks     float64 `json:"total_marks"`
		Date           string  `json:"date"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.EnrollmentID <= 0 {
		s.error(w, r, apperr.Validation("enrollmentId", "Valid enrollment must be selected"))
		return
	}
	// отбрасываем бессмысленные баллы до записи
	if _, err := grading.ForMarks(req.MarksObtained, req.TotalMarks); err != nil {
		s.error(w, r, err)
		return
	}
	day, err := time.ParseInLocation(dateLayout, req.Date, s.deps.Location)
	if err != nil {
		s.error(w, r, apperr.Validation("date", "Date must be YYYY-MM-DD"))
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Store.AddAssessment(ctx, models.AssessmentRecord{
		EnrollmentID:   req.EnrollmentID,
		AssessmentType: req.AssessmentType,
		MarksObtained:  req.MarksObtained,
		TotalMarks:     req.TotalMarks,
		Date:           day,
	})
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// --- grading / report ---

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MarksObtained float64 `json:"marks_obtained"`
		TotalMarks    float64 `json:"total_marks"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	res, err := grading.ForMarks(req.MarksObtained, req.TotalMarks)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"percentage":      res.Percentage,
		"percent_display": res.PercentDisplay(),
		"letter":          res.Letter,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	counts, err := s.deps.Store.CourseEnrollmentCounts(ctx)
	if err != nil {
		s.error(w, r, err)
		return
	}
	rows, sum := report.Build(counts)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"rows":    rows,
		"summary": sum,
	})
}

// --- students / courses / lecturers ---

type studentReq struct {
	StudentNumber  string  `json:"student_number"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	DateOfBirth    string  `json:"date_of_birth"`
	EnrollmentDate string  `json:"enrollment_date"`
	Status         string  `json:"status"`
}

func (s *Server) studentFromReq(req studentReq) (models.Student, error) {
	switch {
	case strings.TrimSpace(req.StudentNumber) == "":
		return models.Student{}, apperr.Validation("studentNumber", "Student number is required")
	case strings.TrimSpace(req.FirstName) == "":
		return models.Student{}, apperr.Validation("firstName", "First name is required")
	case strings.TrimSpace(req.LastName) == "":
		return models.Student{}, apperr.Validation("lastName", "Last name is required")
	case strings.TrimSpace(req.Email) == "":
		return models.Student{}, apperr.Validation("email", "Email is required")
	}
	st := models.Student{
		StudentNumber: req.StudentNumber,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        models.StudentStatus(req.Status),
	}
	if st.Status == "" {
		st.Status = models.StudentActive
	}
	if req.DateOfBirth != "" {
		d, err := time.ParseInLocation(dateLayout, req.DateOfBirth, s.deps.Location)
		if err != nil {
			return models.Student{}, apperr.Validation("dateOfBirth", "Date must be YYYY-MM-DD")
		}
		st.DateOfBirth = &d
	}
	if req.EnrollmentDate != "" {
		d, err := time.ParseInLocation(dateLayout, req.EnrollmentDate, s.deps.Location)
		if err != nil {
			return models.Student{}, apperr.Validation("enrollmentDate", "Date must be YYYY-MM-DD")
		}
		st.EnrollmentDate = d
	} else {
		st.EnrollmentDate = time.Now().In(s.deps.Location)
	}
	return st, nil
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentReq
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.studentFromReq(req)
	if err != nil {
		s.error(w, r, err)
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Store.InsertStudent(ctx, st)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	st, err := s.deps.Store.GetStudentByID(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if st == nil {
		s.notFound(w)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req studentReq
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.studentFromReq(req)
	if err != nil {
		s.error(w, r, err)
		return
	}
	st.ID = id
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	updated, err := s.deps.Store.UpdateStudent(ctx, st)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	deleted, err := s.deps.Store.DeleteStudent(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	var (
		rows []models.Student
		err  error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		rows, err = s.deps.Store.SearchStudents(ctx, term)
	} else {
		rows, err = s.deps.Store.ListStudents(ctx)
	}
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	rows, err := s.deps.Store.ListCourses(ctx)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

type courseReq struct {
	CourseCode  string  `json:"course_code"`
	CourseName  string  `json:"course_name"`
	Credits     int     `json:"credits"`
	Semester    string  `json:"semester"`
	Capacity    int     `json:"capacity"`
	LecturerID  *int64  `json:"lecturer_id"`
	Description *string `json:"description"`
}

func courseFromReq(req courseReq) (models.Course, error) {
	switch {
	case strings.TrimSpace(req.CourseCode) == "":
		return models.Course{}, apperr.Validation("courseCode", "Course code is required")
	case strings.TrimSpace(req.CourseName) == "":
		return models.Course{}, apperr.Validation("courseName", "Course name is required")
	case req.Credits <= 0:
		return models.Course{}, apperr.Validation("credits", "Credits must be a positive number")
	case req.Capacity <= 0:
		return models.Course{}, apperr.Validation("capacity", "Capacity must be a positive number")
	}
	return models.Course{
		CourseCode:  req.CourseCode,
		CourseName:  req.CourseName,
		Credits:     req.Credits,
		Semester:    req.Semester,
		Capacity:    req.Capacity,
		LecturerID:  req.LecturerID,
		Description: req.Description,
	}, nil
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseReq
	if !s.decode(w, r, &req) {
		return
	}
	c, err := courseFromReq(req)
	if err != nil {
		s.error(w, r, err)
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Store.InsertCourse(ctx, c)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	c, err := s.deps.Store.GetCourseByID(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if c == nil {
		s.notFound(w)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req courseReq
	if !s.decode(w, r, &req) {
		return
	}
	c, err := courseFromReq(req)
	if err != nil {
		s.error(w, r, err)
		return
	}
	c.ID = id
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	updated, err := s.deps.Store.UpdateCourse(ctx, c)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	deleted, err := s.deps.Store.DeleteCourse(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleListLecturers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	rows, err := s.deps.Store.ListLecturers(ctx)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCreateLecturer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName   string  `json:"full_name"`
		Email      string  `json:"email"`
		Department *string `json:"department"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FullName) == "" {
		s.error(w, r, apperr.Validation("fullName", "Full name is required"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		s.error(w, r, apperr.Validation("email", "Email is required"))
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Store.InsertLecturer(ctx, models.Lecturer{
		FullName:   req.FullName,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetLecturer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	l, err := s.deps.Store.GetLecturerByID(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if l == nil {
		s.notFound(w)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLecturer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	deleted, err := s.deps.Store.DeleteLecturer(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// --- users ---

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	id, err := s.deps.Auth.Register(ctx, models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     models.Role(req.Role),
	}, req.Password)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	var (
		rows []models.User
		err  error
	)
	if term := r.URL.Query().Get("q"); term != "" {
		rows, err = s.deps.Auth.SearchUsers(ctx, term)
	} else {
		rows, err = s.deps.Auth.ListUsers(ctx)
	}
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	u, err := s.deps.Auth.GetUser(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	if u == nil {
		s.notFound(w)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Status   string `json:"status"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = string(models.UserActive)
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	updated, err := s.deps.Auth.UpdateUser(ctx, models.User{
		ID:       id,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     models.Role(req.Role),
		Status:   models.UserStatus(req.Status),
	})
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	// свою учётку удалить нельзя, иначе сессия повиснет без владельца
	if current, _ := s.deps.Sessions.Current(); current.ID == id {
		s.writeJSON(w, http.StatusBadRequest, errBody{Error: "cannot delete the logged-in account"})
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	deleted, err := s.deps.Auth.DeleteUser(ctx, id)
	if err != nil {
		s.error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	// пароль можно менять только себе
	if current, _ := s.deps.Sessions.Current(); current.ID != id {
		s.writeJSON(w, http.StatusForbidden, errBody{Error: "can only change own password"})
		return
	}
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if err := s.deps.Auth.ChangePassword(ctx, id, req.OldPassword, req.NewPassword); err != nil {
		s.error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := ctxutil.WithDBTimeout(r.Context())
	defer cancel()

	if err := s.deps.Auth.ResetPassword(ctx, id, req.NewPassword); err != nil {
		s.error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

type errBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errBody{Error: "malformed json body"})
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSON(w, http.StatusBadRequest, errBody{Error: "bad id in path"})
		return 0, false
	}
	return id, true
}

func (s *Server) notFound(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusNotFound, errBody{Error: "not found"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error — единая раскладка доменных ошибок по HTTP-кодам.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		s.writeJSON(w, http.StatusBadRequest, errBody{Error: ve.Message, Field: ve.Field})
		return
	}
	var de *apperr.DuplicateEnrollmentError
	if errors.As(err, &de) {
		s.writeJSON(w, http.StatusConflict, errBody{Error: de.Error()})
		return
	}
	if errors.Is(err, apperr.ErrInvalidCredentials) {
		s.writeJSON(w, http.StatusUnauthorized, errBody{Error: "invalid credentials"})
		return
	}
	var ie *apperr.InvalidInputError
	if errors.As(err, &ie) {
		s.writeJSON(w, http.StatusBadRequest, errBody{Error: ie.Reason})
		return
	}

	op, _ := ctxutil.Op(r.Context())
	s.deps.Log.Errorw("internal error", "op", op, "path", r.URL.Path, "err", err)
	observability.CaptureErr(err)
	s.writeJSON(w, http.StatusInternalServerError, errBody{Error: "internal error"})
}
