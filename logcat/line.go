// Package logcat classifies Android logcat output into events such as ANRs and crashes.
package logcat

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// threadtime matches lines produced by "logcat -v threadtime", with or without the uid column:
	//
	//	04-25 17:17:08.445   312   366 E ActivityManager: ANR in process: com.android.package
	//	04-25 09:55:47.799  wifi  3064  3082 E AndroidRuntime: java.lang.Exception
	threadtime = regexp.MustCompile(
		`^(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})\.(\d{3})\s+(?:(\S+)\s+)?(\d+)\s+(\d+)\s+([VDIWEFA])\s+(.*?)\s*: ?(.*)$`,
	)

	// timeOnly matches lines produced by "logcat -v time", which carry no tid:
	//
	//	04-25 09:55:47.799  E/AndroidRuntime(3064): java.lang.Exception
	timeOnly = regexp.MustCompile(
		`^(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})\.(\d{3})\s+([VDIWEFA])/(.*?)\(\s*(\d+)\): ?(.*)$`,
	)
)

// Line is a single parsed logcat line.
type Line struct {
	Time time.Time
	UID  string
	// TID is 0 when the format does not carry it.
	PID     int
	TID     int
	Level   string
	Tag     string
	Message string
}

// ParseLine parses a logcat line in the threadtime or time format. Logcat does not print the
// year, so it must be provided. It returns false if the line is in neither format.
func ParseLine(line string, year int) (Line, bool) {
	if m := threadtime.FindStringSubmatch(line); m != nil {
		ts, ok := parseTime(m[1:7], year)
		if !ok {
			return Line{}, false
		}
		pid, err := strconv.Atoi(m[8])
		if err != nil {
			return Line{}, false
		}
		tid, err := strconv.Atoi(m[9])
		if err != nil {
			return Line{}, false
		}
		return Line{Time: ts, UID: m[7], PID: pid, TID: tid, Level: m[10], Tag: m[11], Message: m[12]}, true
	}

	if m := timeOnly.FindStringSubmatch(line); m != nil {
		ts, ok := parseTime(m[1:7], year)
		if !ok {
			return Line{}, false
		}
		pid, err := strconv.Atoi(m[9])
		if err != nil {
			return Line{}, false
		}
		return Line{Time: ts, PID: pid, Level: m[7], Tag: m[8], Message: m[10]}, true
	}

	return Line{}, false
}

// parseTime builds a time from the month, day, hour, minute, second and millisecond fields.
func parseTime(fields []string, year int) (time.Time, bool) {
	var nums [6]int
	for i, s := range fields {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	month, day, hour, minute, sec, milli := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 60 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, sec, milli*int(time.Millisecond), time.UTC), true
}
