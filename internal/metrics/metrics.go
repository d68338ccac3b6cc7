package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Logins = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acadrec", Name: "logins_total", Help: "Successful logins",
	})
	AuthFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acadrec", Name: "auth_failures_total", Help: "Rejected login attempts",
	})
	Enrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acadrec", Name: "enrollments_total", Help: "Created enrollments",
	})
	DuplicateEnrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acadrec", Name: "duplicate_enrollments_total", Help: "Enroll attempts rejected as duplicates",
	})
	Withdrawals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "acadrec", Name: "withdrawals_total", Help: "Deleted enrollments",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "acadrec", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
	// CourseOccupancy обновляется фоновой задачей jobs.RefreshOccupancy.
	CourseOccupancy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "acadrec", Name: "course_occupancy_percent", Help: "Enrolled seats / capacity per course",
	}, []string{"course_code"})
	FullCourses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "acadrec", Name: "full_courses", Help: "Courses with no available seats",
	})
)

func init() {
	prometheus.MustRegister(
		Logins, AuthFailures,
		Enrollments, DuplicateEnrollments, Withdrawals,
		DBPing, CourseOccupancy, FullCourses,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
