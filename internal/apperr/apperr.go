// Package apperr — доменные ошибки ядра. Все ошибки — значения: вызывающая
// сторона различает их через errors.As/errors.Is и показывает осмысленное
// сообщение.
package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials — единый исход для "нет такого пользователя",
// "пользователь неактивен" и "пароль не подошёл". Случаи намеренно не
// различаются, чтобы не подсказывать перебор логинов.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError — некорректный ввод. Field называет первое не прошедшее
// проверку поле (проверки идут в фиксированном порядке, без агрегации).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateEnrollmentError — нарушение доменного правила: по паре
// (студент, курс) уже есть активная запись.
type DuplicateEnrollmentError struct {
	StudentID int64
	CourseID  int64
}

func (e *DuplicateEnrollmentError) Error() string {
	return fmt.Sprintf("student %d is already enrolled in course %d", e.StudentID, e.CourseID)
}

// InvalidInputError — бессмысленный вход чистых вычислений (оценка, отчёт).
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsDuplicateEnrollment(err error) bool {
	var de *DuplicateEnrollmentError
	return errors.As(err, &de)
}
