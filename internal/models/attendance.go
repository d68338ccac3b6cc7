package models

import "time"

type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
	Late    AttendanceStatus = "Late"
)

func KnownAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case Present, Absent, Late:
		return true
	}
	return false
}

// AttendanceRecord — отметка посещаемости; по (enrollment_id, att_date)
// хранится не больше одной записи, повторная отметка перезаписывает старую.
type AttendanceRecord struct {
	ID           int64            `db:"id"`
	EnrollmentID int64            `db:"enrollment_id"`
	Date         time.Time        `db:"att_date"`
	Status       AttendanceStatus `db:"status"`
	Remarks      *string          `db:"remarks"`
}
