package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Jakarta")
	if err != nil {
		panic(err)
	}
}

// force timezone to be WIB, the portal's dates are campus-local and the
// servers running this are not guaranteed to be.
func Now() time.Time {
	return time.Now().In(Location)
}

// AcademicYear returns the portal's mkThn value for the moment `now`:
// the starting calendar year of the academic year in progress. the odd
// semester runs Aug-Jan, the even one Feb-Jul of the following calendar
// year, both keyed by the year the odd semester started in.
func AcademicYear(now time.Time) int {
	now = now.In(Location)
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

// Semester returns 1 during the odd semester months and 2 otherwise.
func Semester(now time.Time) int {
	now = now.In(Location)
	if now.Month() >= time.August {
		return 1
	}
	return 2
}
