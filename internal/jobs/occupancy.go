package jobs

import (
	"context"

	"github.com/Spok95/academic-records/internal/ctxutil"
	"github.com/Spok95/academic-records/internal/metrics"
	"github.com/Spok95/academic-records/internal/models"
	"github.com/Spok95/academic-records/internal/report"
)

type occupancySource interface {
	CourseEnrollmentCounts(ctx context.Context) ([]models.CourseEnrollmentSummary, error)
}

// RefreshOccupancy — периодический пересчёт гейджей занятости курсов.
func RefreshOccupancy(src occupancySource) Job {
	return func(ctx context.Context) error {
		ctx, cancel := ctxutil.WithDBTimeout(ctx)
		defer cancel()

		counts, err := src.CourseEnrollmentCounts(ctx)
		if err != nil {
			return err
		}
		rows, sum := report.Build(counts)
		metrics.CourseOccupancy.Reset()
		for _, r := range rows {
			metrics.CourseOccupancy.WithLabelValues(r.CourseCode).Set(r.OccupancyPct)
		}
		metrics.FullCourses.Set(float64(sum.FullCourses))
		return nil
	}
}
