package logcat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventMessage(t *testing.T) {
	e := &Event{}
	assert.Equal(t, "", e.Message())
	assert.Equal(t, "", e.StackString())

	e.Stack = []string{"java.lang.Exception", "\tat class.method1(Class.java:1)"}
	assert.Equal(t, "java.lang.Exception", e.Message())
	assert.Equal(t, "java.lang.Exception\n\tat class.method1(Class.java:1)", e.StackString())
}

func TestItemEventsOf(t *testing.T) {
	item := &Item{
		Events: []*Event{
			{Category: RuntimeRestart, PID: 1},
			{Category: ANR, PID: 2},
			{Category: RuntimeRestart, PID: 3},
		},
	}

	restarts := item.EventsOf(RuntimeRestart)
	if assert.Len(t, restarts, 2) {
		assert.Equal(t, 1, restarts[0].PID)
		assert.Equal(t, 3, restarts[1].PID)
	}
	assert.Empty(t, item.EventsOf(NativeCrash))
	assert.Equal(t, []Category{ANR, RuntimeRestart}, item.Categories())
	assert.Empty(t, (&Item{}).Categories())
}
