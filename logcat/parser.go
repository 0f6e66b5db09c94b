package logcat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tigerwill90/retrie"
	"github.com/tigerwill90/retrie/internal/iterutil"
)

// ErrMissingTag is returned when a pattern is added without a tag.
var ErrMissingTag = errors.New("missing tag")

const maxLineSize = 1 << 20

// EventHandler is notified every time the parser completes an event.
type EventHandler interface {
	HandleEvent(e *Event)
}

// EventHandlerFunc is an adapter to use an ordinary function as an [EventHandler].
type EventHandlerFunc func(e *Event)

// HandleEvent calls f(e).
func (f EventHandlerFunc) HandleEvent(e *Event) {
	f(e)
}

// kind selects how the lines of an event are interpreted.
type kind uint8

const (
	kindMisc kind = iota
	kindANR
	kindJavaCrash
	kindNativeCrash
)

type action uint8

const (
	// actionOpen always starts a new event.
	actionOpen action = iota
	// actionExtend continues the open event of the thread if it has the same category, otherwise it
	// starts a new one.
	actionExtend
	// actionRemember records the app name running in the process of the line.
	actionRemember
	// actionReboot ignores every line until logcat restarts.
	actionReboot
)

// rule is what a sequence of tag, level and message patterns classifies a line as.
type rule struct {
	category Category
	kind     kind
	action   action
}

type defaultPattern struct {
	tag, level, message string
	rule                rule
}

var defaultPatterns = []defaultPattern{
	{
		tag:     "ActivityManager",
		level:   "E",
		message: `ANR (?:\(application not responding\) )?in (?:process: )?(\S+).*`,
		rule:    rule{category: ANR, kind: kindANR},
	},
	{
		tag:     "AndroidRuntime",
		level:   "D",
		message: `Calling main entry (\S+)`,
		rule:    rule{action: actionRemember},
	},
	{
		tag:     "AndroidRuntime",
		level:   "E",
		message: `(?:\*\*\* )?FATAL EXCEPTION.*`,
		rule:    rule{category: JavaCrash, kind: kindJavaCrash},
	},
	{
		tag:     "AndroidRuntime",
		level:   "E",
		message: retrie.Wildcard,
		rule:    rule{category: JavaCrash, kind: kindJavaCrash, action: actionExtend},
	},
	{
		tag:     "DEBUG",
		level:   "I|F",
		message: `(?:\*\*\* ){15}\*\*\*`,
		rule:    rule{category: NativeCrash, kind: kindNativeCrash},
	},
	{
		tag:     "DEBUG",
		level:   "I|F",
		message: `Build fingerprint: .*`,
		rule:    rule{category: NativeCrash, kind: kindNativeCrash, action: actionExtend},
	},
	{
		tag:     "AudioTrack",
		level:   "W",
		message: `obtainBuffer timed out.*`,
		rule:    rule{category: HighCPUUsage},
	},
	{
		tag:     "gralloc",
		level:   "E",
		message: `GetBufferLock timed out.*`,
		rule:    rule{category: HighMemoryUsage},
	},
	{
		tag:     "Watchdog",
		level:   "W",
		message: `\*\*\* WATCHDOG KILLING SYSTEM PROCESS.*`,
		rule:    rule{category: RuntimeRestart},
	},
	{
		tag:     "ShutdownThread",
		level:   "I",
		message: `Rebooting, reason: .*`,
		rule:    rule{action: actionReboot},
	},
}

var (
	pidLine         = regexp.MustCompile(`^PID: (\d+)$`)
	processPidLine  = regexp.MustCompile(`^Process: (\S+), PID: (\d+)$`)
	systemProcess   = regexp.MustCompile(`^\*\*\* FATAL EXCEPTION IN SYSTEM PROCESS`)
	exceptionLine   = regexp.MustCompile(`^(?:[\w$]+\.)+[\w$]*(?:Exception|Error|Throwable)[\w$]*(?::.*)?$`)
	stackLine       = regexp.MustCompile(`^(?:\s+at |\s*\.\.\. \d+ more|Caused by: )`)
	nativeProcessLn = regexp.MustCompile(`^pid: (\d+), tid: (\d+)(?:, name: .*?)?\s+>>> (\S+) <<<`)
)

// restartMarker is printed by logcat when it starts again, after a reboot for example.
const restartMarker = "--------- beginning of"

type threadKey struct {
	pid, tid int
}

type pending struct {
	event *Event
	kind  kind
	// index of the event in the item.
	index         int
	systemProcess bool
}

type recentLine struct {
	pid int
	raw string
}

// Parser classifies logcat lines into events. Lines are classified by their tag, level and
// message, in this order, against a [retrie.Trie]. Each event collects the following lines of the
// same thread until another event starts on this thread or a line with a different tag or level
// is logged by it.
//
// A Parser accumulates the lines of successive calls to Parse into the same [Item] until Clear
// is called. It is not safe for concurrent use.
type Parser struct {
	trie         *retrie.Trie[rule]
	logger       *slog.Logger
	handler      EventHandler
	year         int
	preambleSize int

	item      *Item
	open      map[threadKey]*pending
	apps      map[int]string
	recent    []recentLine
	rebooting bool
}

// NewParser returns a Parser recognizing ANRs, Java and native crashes, and the miscellaneous
// events of the package categories, unless [WithoutDefaultPatterns] is given.
func NewParser(opts ...ParserOption) (*Parser, error) {
	cfg := defaultParserConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	var trieOpts []retrie.Option
	if cfg.logger != nil {
		trieOpts = append(trieOpts, retrie.WithLogHandler(cfg.logger.Handler()))
	}
	trie, err := retrie.New[rule](trieOpts...)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		trie:         trie,
		logger:       trie.Logger(),
		handler:      cfg.handler,
		year:         cfg.year,
		preambleSize: cfg.preambleSize,
		open:         make(map[threadKey]*pending),
		apps:         make(map[int]string),
	}

	if !cfg.noDefaults {
		for _, dp := range defaultPatterns {
			if err := p.trie.Put(dp.rule, dp.tag, dp.level, dp.message); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// MustNewParser is like [NewParser] but panics on error.
func MustNewParser(opts ...ParserOption) *Parser {
	p, err := NewParser(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// AddPattern classifies lines under category when their tag, level and message fully match the
// given patterns. An empty level or message matches anything. Each matching line is an event on
// its own. A pattern added for a tag, level and message already registered replaces it.
func (p *Parser) AddPattern(message, level, tag string, category Category) error {
	return p.add(rule{category: category}, tag, level, message)
}

// AddJavaCrashTag classifies every line logged with tag at level as part of a Java crash. Lines
// that do not belong to the exception, such as banners around it, are left out of the event stack.
func (p *Parser) AddJavaCrashTag(level, tag string, category Category) error {
	return p.add(rule{category: category, kind: kindJavaCrash, action: actionExtend}, tag, level, "")
}

func (p *Parser) add(r rule, tag, level, message string) error {
	if tag == "" {
		return fmt.Errorf("%w: cannot add pattern for category %s", ErrMissingTag, r.category)
	}
	if level == "" {
		level = retrie.Wildcard
	}
	if message == "" {
		message = retrie.Wildcard
	}
	return p.trie.Put(r, tag, level, message)
}

// Patterns returns the tag, level and message patterns of the parser, with the category of the
// events they start or extend. Patterns only used to track apps or reboots are left out.
func (p *Parser) Patterns() iter.Seq2[[]string, Category] {
	return func(yield func([]string, Category) bool) {
		for patterns, r := range p.trie.All() {
			if r.category == "" {
				continue
			}
			if !yield(patterns, r.category) {
				return
			}
		}
	}
}

// String returns a dump of the pattern tree of the parser.
func (p *Parser) String() string {
	return p.trie.String()
}

// Parse reads r line by line and returns the item accumulated so far, or nil if no line could
// be parsed since the last Clear.
func (p *Parser) Parse(r io.Reader) (*Item, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		p.parseLine(scanner.Text())
	}
	item := p.flush()
	if err := scanner.Err(); err != nil {
		return item, fmt.Errorf("failed to read logcat: %w", err)
	}
	return item, nil
}

// ParseLines is like Parse for lines already split.
func (p *Parser) ParseLines(lines ...string) *Item {
	return p.ParseSeq(iterutil.SeqOf(lines...))
}

// ParseSeq is like Parse for a sequence of lines.
func (p *Parser) ParseSeq(lines iter.Seq[string]) *Item {
	for line := range lines {
		p.parseLine(line)
	}
	return p.flush()
}

// Clear forgets every line parsed so far. The next call to Parse returns a new item.
func (p *Parser) Clear() {
	p.item = nil
	clear(p.open)
	clear(p.apps)
	p.recent = nil
	p.rebooting = false
}

func (p *Parser) parseLine(raw string) {
	line, ok := ParseLine(raw, p.year)
	if !ok {
		if strings.Contains(raw, restartMarker) {
			p.rebooting = false
			return
		}
		if raw != "" {
			p.logger.Debug("skipping unparsable line", slog.String("line", raw))
		}
		return
	}

	if p.item == nil {
		p.item = &Item{Start: line.Time}
	}
	p.item.Stop = line.Time
	defer p.remember(line.PID, raw)

	if p.rebooting {
		return
	}

	key := threadKey{pid: line.PID, tid: line.TID}
	if r, groups, ok := p.classify(line); ok {
		switch r.action {
		case actionReboot:
			p.logger.Debug("reboot detected, ignoring lines until logcat restarts", slog.Int("pid", line.PID))
			p.closeAll()
			p.rebooting = true
			return
		case actionRemember:
			if len(groups) > 0 {
				p.apps[line.PID] = groups[0]
			}
		case actionExtend:
			if pe := p.open[key]; pe != nil && pe.event.Category == r.category && pe.event.Tag == line.Tag {
				p.extend(pe, line.Message)
				return
			}
			p.start(key, line, r, groups)
			return
		default:
			p.start(key, line, r, groups)
			return
		}
	}

	if pe := p.open[key]; pe != nil {
		if pe.event.Tag == line.Tag && pe.event.Level == line.Level {
			p.extend(pe, line.Message)
			return
		}
		p.close(key)
	}
}

// classify looks up the rule of a line. A line whose level matches a literal level pattern of its
// tag but none of the following message patterns is classified again as if its level was absent,
// so that patterns registered for any level still apply.
func (p *Parser) classify(line Line) (rule, []string, bool) {
	var groups retrie.Groups
	if r, ok := p.trie.RetrieveGroups(&groups, line.Tag, line.Level, line.Message); ok {
		return r, messageGroups(groups), true
	}

	c := p.trie.Cursor()
	if c.Next(line.Tag) && c.NextAbsent() && c.Next(line.Message) {
		if r, ok := c.Value(); ok {
			return r, messageGroups(c.Groups()), true
		}
	}
	return rule{}, nil, false
}

func messageGroups(groups retrie.Groups) []string {
	if len(groups) < 3 {
		return nil
	}
	return groups[2]
}

func (p *Parser) start(key threadKey, line Line, r rule, groups []string) {
	p.close(key)

	e := &Event{
		Category: r.category,
		Time:     line.Time,
		UID:      line.UID,
		PID:      line.PID,
		TID:      line.TID,
		Level:    line.Level,
		Tag:      line.Tag,
		Groups:   groups,
	}
	e.LastPreamble, e.ProcessPreamble = p.preambles(line.PID)

	if r.kind == kindANR && len(groups) > 0 {
		e.App = groups[0]
	}

	pe := &pending{event: e, kind: r.kind, index: len(p.item.Events)}
	p.item.Events = append(p.item.Events, e)
	p.extend(pe, line.Message)

	p.logger.Debug(
		"event started",
		slog.String("category", string(e.Category)),
		slog.String("tag", e.Tag),
		slog.Int("pid", line.PID),
		slog.Int("tid", line.TID),
	)

	if r.kind == kindMisc {
		p.finish(pe)
		return
	}
	p.open[key] = pe
}

func (p *Parser) extend(pe *pending, msg string) {
	e := pe.event
	e.Stack = append(e.Stack, msg)

	switch pe.kind {
	case kindANR:
		if m := pidLine.FindStringSubmatch(msg); m != nil {
			e.PID, e.TID = atoi(m[1]), 0
		}
	case kindJavaCrash:
		if systemProcess.MatchString(msg) {
			pe.systemProcess = true
		} else if m := processPidLine.FindStringSubmatch(msg); m != nil {
			e.App, e.PID, e.TID = m[1], atoi(m[2]), 0
		} else if m := pidLine.FindStringSubmatch(msg); m != nil {
			e.PID, e.TID = atoi(m[1]), 0
		}
	case kindNativeCrash:
		if m := nativeProcessLn.FindStringSubmatch(msg); m != nil {
			e.PID, e.TID, e.App = atoi(m[1]), atoi(m[2]), m[3]
		}
	}
}

func (p *Parser) close(key threadKey) {
	pe := p.open[key]
	if pe == nil {
		return
	}
	delete(p.open, key)
	p.finish(pe)
}

// closeAll completes the open events in the order they started.
func (p *Parser) closeAll() {
	open := make([]*pending, 0, len(p.open))
	for _, pe := range p.open {
		open = append(open, pe)
	}
	clear(p.open)
	slices.SortFunc(open, func(a, b *pending) int { return a.index - b.index })
	for _, pe := range open {
		p.finish(pe)
	}
}

// finish completes an event and notifies the handler. Java crashes without an exception are
// dropped from the item.
func (p *Parser) finish(pe *pending) {
	e := pe.event
	if pe.kind == kindJavaCrash {
		if !trimJavaStack(e) {
			p.item.Events[pe.index] = nil
			p.logger.Debug("java crash without exception dropped", slog.String("tag", e.Tag), slog.Int("pid", e.PID))
			return
		}
		if e.App == "" {
			e.App = p.apps[e.PID]
		}
		if e.App == "" && pe.systemProcess {
			e.App = "system_server"
		}
	}

	if p.handler != nil {
		p.handler.HandleEvent(e)
	}
}

// trimJavaStack keeps only the exception and its stack frames, and reports whether an exception
// was found.
func trimJavaStack(e *Event) bool {
	i := slices.IndexFunc(e.Stack, exceptionLine.MatchString)
	if i < 0 {
		return false
	}
	e.Exception = e.Stack[i]

	var stack []string
	for _, msg := range e.Stack[i:] {
		if exceptionLine.MatchString(msg) || stackLine.MatchString(msg) {
			stack = append(stack, msg)
		}
	}
	e.Stack = stack
	return true
}

// flush completes the open events and returns the item.
func (p *Parser) flush() *Item {
	p.closeAll()
	if p.item == nil {
		return nil
	}
	p.item.Events = slices.DeleteFunc(p.item.Events, func(e *Event) bool { return e == nil })
	return p.item
}

func (p *Parser) remember(pid int, raw string) {
	if p.preambleSize == 0 {
		return
	}
	if len(p.recent) == p.preambleSize {
		p.recent = slices.Delete(p.recent, 0, 1)
	}
	p.recent = append(p.recent, recentLine{pid: pid, raw: raw})
}

func (p *Parser) preambles(pid int) (last, process []string) {
	for _, rl := range p.recent {
		last = append(last, rl.raw)
		if rl.pid == pid {
			process = append(process, rl.raw)
		}
	}
	return last, process
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
