package logcat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		name string
		line string
		want Line
	}{
		{
			name: "threadtime",
			line: "04-25 17:17:08.445   312   366 E ActivityManager: ANR in process: com.android.package",
			want: Line{
				Time:    time.Date(2012, time.April, 25, 17, 17, 8, 445*int(time.Millisecond), time.UTC),
				PID:     312,
				TID:     366,
				Level:   "E",
				Tag:     "ActivityManager",
				Message: "ANR in process: com.android.package",
			},
		},
		{
			name: "threadtime with uid",
			line: "04-25 09:55:47.799  wifi  3064  3082 E AndroidRuntime: java.lang.Exception",
			want: Line{
				Time:    time.Date(2012, time.April, 25, 9, 55, 47, 799*int(time.Millisecond), time.UTC),
				UID:     "wifi",
				PID:     3064,
				TID:     3082,
				Level:   "E",
				Tag:     "AndroidRuntime",
				Message: "java.lang.Exception",
			},
		},
		{
			name: "padded tag",
			line: "04-25 18:33:27.273   115   115 I DEBUG   : Build fingerprint: 'product:build:target'",
			want: Line{
				Time:    time.Date(2012, time.April, 25, 18, 33, 27, 273*int(time.Millisecond), time.UTC),
				PID:     115,
				TID:     115,
				Level:   "I",
				Tag:     "DEBUG",
				Message: "Build fingerprint: 'product:build:target'",
			},
		},
		{
			name: "tab is kept in message",
			line: "04-25 09:55:47.799  3064  3082 E AndroidRuntime: \tat class.method1(Class.java:1)",
			want: Line{
				Time:    time.Date(2012, time.April, 25, 9, 55, 47, 799*int(time.Millisecond), time.UTC),
				PID:     3064,
				TID:     3082,
				Level:   "E",
				Tag:     "AndroidRuntime",
				Message: "\tat class.method1(Class.java:1)",
			},
		},
		{
			name: "empty message",
			line: "11-25 19:26:53.589  5832  7008 I TestRunner: ",
			want: Line{
				Time:  time.Date(2012, time.November, 25, 19, 26, 53, 589*int(time.Millisecond), time.UTC),
				PID:   5832,
				TID:   7008,
				Level: "I",
				Tag:   "TestRunner",
			},
		},
		{
			name: "time format",
			line: "04-25 09:55:47.799  E/AndroidRuntime(3064): java.lang.Exception",
			want: Line{
				Time:    time.Date(2012, time.April, 25, 9, 55, 47, 799*int(time.Millisecond), time.UTC),
				PID:     3064,
				Level:   "E",
				Tag:     "AndroidRuntime",
				Message: "java.lang.Exception",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.line, 2012)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLineInvalid(t *testing.T) {
	lines := []string{
		"",
		"--------- beginning of main",
		"logcat interrupted. May see duplicated content in log.--------- beginning of /dev/log/main",
		"13-25 09:55:47.799  3064  3082 E AndroidRuntime: bad month",
		"04-32 09:55:47.799  3064  3082 E AndroidRuntime: bad day",
		"04-25 24:55:47.799  3064  3082 E AndroidRuntime: bad hour",
		"04-25 09:55:47.799  3064  3082 X AndroidRuntime: bad level",
		"04-25 09:55:47  3064  3082 E AndroidRuntime: no millis",
	}

	for _, line := range lines {
		_, ok := ParseLine(line, 2012)
		assert.Falsef(t, ok, "line %q", line)
	}
}
