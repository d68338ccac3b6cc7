// Package grading — чистый расчёт оценки: баллы → процент → буква.
package grading

import (
	"fmt"
	"math"

	"github.com/Spok95/academic-records/internal/apperr"
)

type Result struct {
	Percentage float64
	Letter     string
}

// ForMarks считает процент и буквенную оценку. Пороги проверяются сверху
// вниз, нижняя граница включительно: ровно 80 — это ещё "A". Округление
// перед сравнением не применяется.
func ForMarks(obtained, total float64) (Result, error) {
	if math.IsNaN(obtained) || math.IsInf(obtained, 0) ||
		math.IsNaN(total) || math.IsInf(total, 0) {
		return Result{}, &apperr.InvalidInputError{Reason: "marks must be finite numbers"}
	}
	if total <= 0 {
		return Result{}, &apperr.InvalidInputError{Reason: "total marks must be greater than zero"}
	}
	if obtained < 0 {
		return Result{}, &apperr.InvalidInputError{Reason: "obtained marks must not be negative"}
	}

	pct := obtained / total * 100
	return Result{Percentage: pct, Letter: letterFor(pct)}, nil
}

func letterFor(pct float64) string {
	switch {
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}

// PercentDisplay — представление для таблиц, два знака. Только отображение,
// в сравнениях участвует неокруглённый Percentage.
func (r Result) PercentDisplay() string {
	return fmt.Sprintf("%.2f%%", r.Percentage)
}
