// Package observability — отправка неожиданных ошибок в sentry. Доменные
// исходы (валидация, дубли записи, неверные креденшелы) ошибками доставки
// не считаются и туда не попадают.
package observability

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Spok95/academic-records/internal/apperr"
)

func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", "academic-records")
	})
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// Reportable — стоит ли ошибка алерта. Ожидаемые доменные исходы отсекаются,
// чтобы sentry не тонул в опечатках пользователей.
func Reportable(err error) bool {
	if err == nil {
		return false
	}
	if apperr.IsValidation(err) || apperr.IsDuplicateEnrollment(err) {
		return false
	}
	if errors.Is(err, apperr.ErrInvalidCredentials) {
		return false
	}
	var ie *apperr.InvalidInputError
	return !errors.As(err, &ie)
}

func CaptureErr(err error) {
	if Reportable(err) {
		sentry.CaptureException(err)
	}
}
