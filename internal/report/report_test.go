package report

import (
	"testing"

	"github.com/Spok95/academic-records/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		enrolled, capacity int
		want               string
	}{
		{10, 10, StatusFull}, // свободных мест ровно 0
		{12, 10, StatusFull},
		{7, 10, StatusHigh},
		{5, 10, StatusMedium}, // 50% — нижняя граница включительна
		{3, 10, StatusLow},
		{2, 10, StatusCritical},
		{0, 0, StatusFull},  // нулевая вместимость — мест нет
		{0, -1, StatusFull}, // отрицательная тоже
		{0, 10, StatusCritical},
	}
	for _, c := range cases {
		if got := Classify(c.enrolled, c.capacity); got != c.want {
			t.Errorf("Classify(%d, %d) = %q, ожидали %q", c.enrolled, c.capacity, got, c.want)
		}
	}
}

func TestBuild_Summary(t *testing.T) {
	rows := []models.CourseEnrollmentSummary{
		{CourseCode: "CS101", EnrolledCount: 30, Capacity: 30}, // FULL
		{CourseCode: "CS102", EnrolledCount: 25, Capacity: 30}, // High
		{CourseCode: "CS103", EnrolledCount: 16, Capacity: 30}, // Medium
		{CourseCode: "CS104", EnrolledCount: 10, Capacity: 30}, // Low
		{CourseCode: "CS105", EnrolledCount: 2, Capacity: 30},  // Critical
	}
	out, sum := Build(rows)

	if len(out) != 5 {
		t.Fatalf("строк %d, ожидали 5", len(out))
	}
	if sum.TotalCourses != 5 {
		t.Errorf("TotalCourses = %d", sum.TotalCourses)
	}
	if sum.FullCourses != 1 {
		t.Errorf("FullCourses = %d", sum.FullCourses)
	}
	// ниже 50%: Low + Critical, FULL не считается
	if sum.LowEnrollment != 2 {
		t.Errorf("LowEnrollment = %d", sum.LowEnrollment)
	}

	if out[0].AvailableSeats != 0 || out[0].Status != StatusFull {
		t.Errorf("CS101: %+v", out[0])
	}
	if out[2].OccupancyPct < 53 || out[2].OccupancyPct > 54 {
		t.Errorf("CS103 occupancy: %v", out[2].OccupancyPct)
	}
}
