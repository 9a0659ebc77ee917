// Package history keeps a bounded record of recent decisions so the remote
// model can see what it already tried. The log persists as JSON between
// sessions.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const defaultMaxRecords = 10

// Record is one decided iteration.
type Record struct {
	Step       uint64    `json:"step"`
	Action     string    `json:"action"`
	Reasoning  string    `json:"reasoning,omitempty"`
	ScreenText string    `json:"screen_text,omitempty"`
	Applied    bool      `json:"applied"`
	At         time.Time `json:"at"`
}

// Event is a notable moment in the playthrough, currently only on-screen
// dialogue the model transcribed.
type Event struct {
	Kind    string    `json:"kind"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Log holds the rolling decision window plus the full event list.
type Log struct {
	maxRecords int
	records    []Record
	events     []Event
}

func New(maxRecords int) *Log {
	if maxRecords <= 0 {
		maxRecords = defaultMaxRecords
	}
	return &Log{maxRecords: maxRecords}
}

// Add appends a record, evicting the oldest once the window is full. A
// non-empty ScreenText also lands in the event list as dialogue.
func (l *Log) Add(r Record) {
	l.records = append(l.records, r)
	if len(l.records) > l.maxRecords {
		l.records = l.records[1:]
	}
	if text := strings.TrimSpace(r.ScreenText); text != "" {
		l.events = append(l.events, Event{Kind: "dialogue", Content: text, At: r.At})
	}
}

// Records returns the current window, oldest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Events returns all recorded events.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Context formats the window for the model prompt, newest first, one line
// per decision.
func (l *Log) Context() string {
	if len(l.records) == 0 {
		return ""
	}
	var b strings.Builder
	for i := len(l.records) - 1; i >= 0; i-- {
		r := l.records[i]
		outcome := "applied"
		if !r.Applied {
			outcome = "skipped"
		}
		fmt.Fprintf(&b, "- step %d: %s (%s)", r.Step, r.Action, outcome)
		if r.Reasoning != "" {
			fmt.Fprintf(&b, ": %s", r.Reasoning)
		}
		if r.ScreenText != "" {
			fmt.Fprintf(&b, " [screen: %q]", r.ScreenText)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type logFile struct {
	Records []Record `json:"records"`
	Events  []Event  `json:"events"`
}

// Save writes the log as JSON. The parent directory must exist.
func (l *Log) Save(path string) error {
	data, err := json.MarshalIndent(logFile{Records: l.records, Events: l.events}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Load replaces the log contents from a previous Save. A missing file is not
// an error, the log just starts empty.
func (l *Log) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read history: %w", err)
	}
	var f logFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse history: %w", err)
	}
	l.records = f.Records
	if len(l.records) > l.maxRecords {
		l.records = l.records[len(l.records)-l.maxRecords:]
	}
	l.events = f.Events
	return nil
}
