package logcat

import (
	"slices"
	"strings"
	"time"
)

// Category classifies an event.
type Category string

const (
	ANR             Category = "ANR"
	JavaCrash       Category = "JAVA_CRASH"
	NativeCrash     Category = "NATIVE_CRASH"
	HighCPUUsage    Category = "HIGH_CPU_USAGE"
	HighMemoryUsage Category = "HIGH_MEMORY_USAGE"
	RuntimeRestart  Category = "RUNTIME_RESTART"
)

// Event is a group of consecutive lines from the same thread, classified under a Category.
type Event struct {
	Category Category
	Time     time.Time
	UID      string
	// PID and TID are 0 when unknown.
	PID   int
	TID   int
	Level string
	Tag   string
	// App is the name of the process the event relates to, if it could be found.
	App string
	// Exception is the first line of the exception of a Java crash.
	Exception string
	// Groups captured by the message pattern of the line that started the event.
	Groups []string
	// Stack holds the message of every line of the event, first line included.
	Stack []string
	// LastPreamble holds the raw lines preceding the event, oldest first. ProcessPreamble holds
	// only those logged by the event's process.
	LastPreamble    []string
	ProcessPreamble []string
}

// Message returns the message of the first line of the event.
func (e *Event) Message() string {
	if len(e.Stack) == 0 {
		return ""
	}
	return e.Stack[0]
}

// StackString returns the messages of the event joined by new lines.
func (e *Event) StackString() string {
	return strings.Join(e.Stack, "\n")
}

// Item is the result of parsing logcat output.
type Item struct {
	// Start and Stop are the times of the first and last parsed lines.
	Start time.Time
	Stop  time.Time
	// Events in the order they started.
	Events []*Event
}

// EventsOf returns the events classified under category, in the order they started.
func (it *Item) EventsOf(category Category) []*Event {
	var events []*Event
	for _, e := range it.Events {
		if e.Category == category {
			events = append(events, e)
		}
	}
	return events
}

// Categories returns the distinct categories of the item's events, sorted.
func (it *Item) Categories() []Category {
	seen := make(map[Category]struct{})
	var categories []Category
	for _, e := range it.Events {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, e.Category)
	}
	slices.Sort(categories)
	return categories
}
