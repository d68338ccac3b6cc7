// Package report — классификация занятости курсов для отчёта по набору.
package report

import "github.com/Spok95/academic-records/internal/models"

// Статусы занятости; тексты совпадают с теми, что показывает клиент.
const (
	StatusFull     = "FULL - Add Section"
	StatusHigh     = "High Enrollment"
	StatusMedium   = "Medium Enrollment"
	StatusLow      = "Low - Monitor"
	StatusCritical = "Critical - Review"
)

// Classify — статус курса по числу записанных и вместимости.
// При capacity <= 0 свободных мест нет по определению, деление не выполняется.
func Classify(enrolled, capacity int) string {
	if capacity-enrolled <= 0 {
		return StatusFull
	}
	occupancy := 0.0
	if capacity > 0 {
		occupancy = float64(enrolled) * 100 / float64(capacity)
	}
	switch {
	case occupancy >= 70:
		return StatusHigh
	case occupancy >= 50:
		return StatusMedium
	case occupancy >= 30:
		return StatusLow
	default:
		return StatusCritical
	}
}

// Row — строка отчёта: агрегат по курсу плюс выведенные поля.
type Row struct {
	models.CourseEnrollmentSummary
	AvailableSeats int
	OccupancyPct   float64
	Status         string
}

// Summary — итоговые счётчики отчёта. LowEnrollment считает курсы ниже 50%
// занятости (полосы Low и Critical), заполненные курсы туда не входят.
type Summary struct {
	TotalCourses  int
	FullCourses   int
	LowEnrollment int
}

// Build — строки отчёта с классификацией и итогами за один проход.
func Build(rows []models.CourseEnrollmentSummary) ([]Row, Summary) {
	out := make([]Row, 0, len(rows))
	var sum Summary
	for _, r := range rows {
		occupancy := 0.0
		if r.Capacity > 0 {
			occupancy = float64(r.EnrolledCount) * 100 / float64(r.Capacity)
		}
		status := Classify(r.EnrolledCount, r.Capacity)
		switch status {
		case StatusFull:
			sum.FullCourses++
		case StatusLow, StatusCritical:
			sum.LowEnrollment++
		}
		sum.TotalCourses++
		out = append(out, Row{
			CourseEnrollmentSummary: r,
			AvailableSeats:          r.AvailableSeats(),
			OccupancyPct:            occupancy,
			Status:                  status,
		})
	}
	return out, sum
}
