package ticktick

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"
)

// apiTimeLayout is the timestamp format used by the TickTick v2 API.
const apiTimeLayout = "2006-01-02T15:04:05.000-0700"

// Task status values as used on the wire.
const (
	StatusActive    = 0
	StatusCompleted = 2
)

// Priority levels. TickTick only knows these four values.
const (
	PriorityNone   = 0
	PriorityLow    = 1
	PriorityMedium = 3
	PriorityHigh   = 5
)

// Project represents a TickTick project (list)
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ViewMode string `json:"viewMode,omitempty"`
	Closed   bool   `json:"closed,omitempty"`
}

// Task represents a TickTick task
type Task struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	StartDate time.Time `json:"startDate,omitzero"`
	DueDate   time.Time `json:"dueDate,omitzero"`
	TimeZone  string    `json:"timeZone,omitempty"`
	Priority  int       `json:"priority"`
	Completed bool      `json:"completed"`
}

// TaskInput represents the input for creating or updating a task
type TaskInput struct {
	Title     string
	ProjectID string
	Content   string
	StartDate time.Time
	DueDate   time.Time
	Priority  int
}

// apiProject is the wire representation of a project
type apiProject struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ViewMode string `json:"viewMode,omitempty"`
	Closed   bool   `json:"closed,omitempty"`
}

// apiTask is the wire representation of a task. Dates travel as strings
// in the TickTick timestamp format.
type apiTask struct {
	ID        string `json:"id,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
	TimeZone  string `json:"timeZone,omitempty"`
	Priority  int    `json:"priority"`
	Status    int    `json:"status"`
}

// toProject converts a wire project to our Project type
func toProject(p *apiProject) Project {
	if p == nil {
		return Project{}
	}

	viewMode := p.ViewMode
	if viewMode == "" {
		viewMode = "list"
	}

	return Project{
		ID:       p.ID,
		Name:     p.Name,
		Color:    p.Color,
		ViewMode: viewMode,
		Closed:   p.Closed,
	}
}

// toTask converts a wire task to our Task type
func toTask(t *apiTask) Task {
	if t == nil {
		return Task{}
	}

	result := Task{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Content:   t.Content,
		TimeZone:  t.TimeZone,
		Priority:  t.Priority,
		Completed: t.Status == StatusCompleted,
	}

	if t.StartDate != "" {
		if start, err := parseAPITime(t.StartDate); err == nil {
			result.StartDate = start
		}
	}
	if t.DueDate != "" {
		if due, err := parseAPITime(t.DueDate); err == nil {
			result.DueDate = due
		}
	}

	return result
}

// fromTask converts a Task back to its wire representation
func fromTask(t Task) apiTask {
	result := apiTask{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Content:   t.Content,
		TimeZone:  t.TimeZone,
		Priority:  t.Priority,
		Status:    StatusActive,
	}

	if t.Completed {
		result.Status = StatusCompleted
	}
	if !t.StartDate.IsZero() {
		result.StartDate = t.StartDate.Format(apiTimeLayout)
	}
	if !t.DueDate.IsZero() {
		result.DueDate = t.DueDate.Format(apiTimeLayout)
	}

	return result
}

// parseAPITime parses a timestamp as sent by the TickTick API. Some
// responses carry a trailing "Z" instead of a numeric offset.
func parseAPITime(value string) (time.Time, error) {
	if t, err := time.Parse(apiTimeLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// ValidPriority reports whether p is one of the priority values TickTick
// accepts (0=None, 1=Low, 3=Medium, 5=High).
func ValidPriority(p int) bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// PriorityLabel returns the human readable name for a priority value.
func PriorityLabel(p int) string {
	switch p {
	case PriorityNone:
		return "None"
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return "Unknown"
}

// ParseTime parses a user supplied date string. Accepted layouts:
//   - "2006-01-02 15:04:05" (local time)
//   - RFC3339 ("2006-01-02T15:04:05Z07:00")
//   - "2006-01-02" (midnight, local time)
func ParseTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{
		Field:  "date",
		Reason: "expected \"YYYY-MM-DD HH:MM:SS\", RFC3339 or \"YYYY-MM-DD\", got \"" + value + "\"",
	}
}

// colorNameToHex maps common color names to the TickTick hex palette.
// This keeps the API forgiving for clients that send names instead of hex.
var colorNameToHex = map[string]string{
	"red":    "#FF6161",
	"pink":   "#BE3B83",
	"teal":   "#7CEDEB",
	"green":  "#35D870",
	"yellow": "#E6EA49",
	"purple": "#C77B9B",
	"blue":   "#45B7D1",
	"mint":   "#96CEB4",
}

// isHexColor reports whether value is a #RRGGBB hex color string.
func isHexColor(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	_, err := hex.DecodeString(value[1:])
	return err == nil
}

// NormalizeColor normalizes a user provided color to a TickTick-compatible
// hex value. Accepts #RRGGBB directly or one of the named palette colors.
// Unknown or empty values return "" so the backend applies its default.
func NormalizeColor(color string) string {
	lowered := strings.ToLower(strings.TrimSpace(color))
	if lowered == "" {
		return ""
	}
	if isHexColor(lowered) {
		return lowered
	}
	if mapped, ok := colorNameToHex[lowered]; ok {
		return mapped
	}
	return ""
}

// newObjectID generates a 24 character hex object id for new tasks and
// projects. The TickTick batch endpoints expect the client to assign ids.
func newObjectID() string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(time.Now().Unix()))
	_, _ = rand.Read(buf[4:])
	return hex.EncodeToString(buf[:])
}
