// Package enrollment — жизненный цикл записей студент/курс.
package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/academic-records/internal/apperr"
	"github.com/Spok95/academic-records/internal/metrics"
	"github.com/Spok95/academic-records/internal/models"
)

// Repository — контракт хранилища для журнала записей. Insert обязан сам
// гарантировать инвариант уникальности активной записи (транзакция +
// частичный уникальный индекс) и возвращать DuplicateEnrollmentError при
// нарушении: проверка в Enroll до вставки — только быстрый отказ.
type Repository interface {
	FindActive(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	Insert(ctx context.Context, e models.Enrollment) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	UpdateStatusGrade(ctx context.Context, id int64, status models.EnrollmentStatus, grade *string) (bool, error)
	ListAll(ctx context.Context) ([]models.EnrollmentDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error)
	ListEnrolledByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error)
}

type Ledger struct {
	repo Repository
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Enroll создаёт запись в статусе Enrolled. Повторная запись на тот же курс
// при живой активной записи — DuplicateEnrollmentError.
func (l *Ledger) Enroll(ctx context.Context, studentID, courseID int64, date time.Time) (*models.Enrollment, error) {
	if studentID <= 0 {
		return nil, apperr.Validation("studentId", "Valid student must be selected")
	}
	if courseID <= 0 {
		return nil, apperr.Validation("courseId", "Valid course must be selected")
	}
	if date.IsZero() {
		return nil, apperr.Validation("enrollmentDate", "Enrollment date is required")
	}

	existing, err := l.repo.FindActive(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("enroll: check active: %w", err)
	}
	if existing != nil {
		metrics.DuplicateEnrollments.Inc()
		return nil, &apperr.DuplicateEnrollmentError{StudentID: studentID, CourseID: courseID}
	}

	created, err := l.repo.Insert(ctx, models.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: date,
		Status:         models.Enrolled,
	})
	if err != nil {
		if apperr.IsDuplicateEnrollment(err) {
			// гонку двух параллельных Enroll решает индекс в БД
			metrics.DuplicateEnrollments.Inc()
			return nil, err
		}
		return nil, fmt.Errorf("enroll: insert: %w", err)
	}
	metrics.Enrollments.Inc()
	return created, nil
}

// Withdraw удаляет запись; false без ошибки, если записи нет.
// Предыдущий статус намеренно не проверяется (наблюдаемое поведение).
func (l *Ledger) Withdraw(ctx context.Context, enrollmentID int64) (bool, error) {
	if enrollmentID <= 0 {
		return false, nil
	}
	ok, err := l.repo.Delete(ctx, enrollmentID)
	if err != nil {
		return false, fmt.Errorf("withdraw: %w", err)
	}
	if ok {
		metrics.Withdrawals.Inc()
	}
	return ok, nil
}

// UpdateStatusAndGrade — безусловное обновление; таблица переходов не
// применяется, но сам статус должен быть из известного набора.
func (l *Ledger) UpdateStatusAndGrade(ctx context.Context, enrollmentID int64, status models.EnrollmentStatus, grade *string) (bool, error) {
	if !models.KnownEnrollmentStatus(status) {
		return false, apperr.Validation("status", fmt.Sprintf("Unknown enrollment status %q", status))
	}
	ok, err := l.repo.UpdateStatusGrade(ctx, enrollmentID, status, grade)
	if err != nil {
		return false, fmt.Errorf("update enrollment: %w", err)
	}
	return ok, nil
}

// List — все записи с денормализованными полями студента и курса.
func (l *Ledger) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	return l.repo.ListAll(ctx)
}

func (l *Ledger) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentDetail, error) {
	if studentID <= 0 {
		return nil, apperr.Validation("studentId", "Valid student must be selected")
	}
	return l.repo.ListByStudent(ctx, studentID)
}

// ListByCourse — только активные записи курса, по номеру студента.
func (l *Ledger) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	if courseID <= 0 {
		return nil, apperr.Validation("courseId", "Valid course must be selected")
	}
	return l.repo.ListEnrolledByCourse(ctx, courseID)
}
