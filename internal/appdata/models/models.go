package models

import (
	"math"
	"slices"
	"strings"
	"time"

	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// NewColor clamps each component into [0,1].
func NewColor(r, g, b float64) Color {
	return Color{R: clampUnit(r), G: clampUnit(g), B: clampUnit(b)}
}

func (c Color) Validate() error {
	for _, v := range []float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return dErrors.New(dErrors.CodeValidation, "color components must be within [0,1]")
		}
	}
	return nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Tag lives in the AppData palette; goals refer to it by id.
type Tag struct {
	ID    id.TagID `json:"id"`
	Name  string   `json:"name"`
	Color Color    `json:"color"`
}

func NewTag(name string, color Color) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, dErrors.New(dErrors.CodeValidation, "tag name is required")
	}
	if err := color.Validate(); err != nil {
		return Tag{}, err
	}
	return Tag{ID: id.NewTagID(), Name: name, Color: color}, nil
}

type Task struct {
	ID   id.TaskID `json:"id"`
	Name string    `json:"name"`
	Done bool      `json:"done"`
}

func NewTask(name string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, dErrors.New(dErrors.CodeValidation, "task name is required")
	}
	return Task{ID: id.NewTaskID(), Name: name}, nil
}

type Goal struct {
	ID        id.GoalID  `json:"id"`
	Name      string     `json:"name"`
	DueDate   time.Time  `json:"due_date"`
	IsStarred bool       `json:"is_starred"`
	TagIDs    []id.TagID `json:"tag_ids"`
	Tasks     []Task     `json:"tasks"`
}

func NewGoal(name string, dueDate time.Time) (Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Goal{}, dErrors.New(dErrors.CodeValidation, "goal name is required")
	}
	return Goal{ID: id.NewGoalID(), Name: name, DueDate: dueDate, TagIDs: []id.TagID{}, Tasks: []Task{}}, nil
}

// HasTag reports whether the goal references tagID.
func (g *Goal) HasTag(tagID id.TagID) bool {
	for _, t := range g.TagIDs {
		if t == tagID {
			return true
		}
	}
	return false
}

type Status struct {
	ID    id.StatusID `json:"id"`
	Name  string      `json:"name"`
	Goals []Goal      `json:"goals"`
}

func NewStatus(name string) (Status, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Status{}, dErrors.New(dErrors.CodeValidation, "status name is required")
	}
	return Status{ID: id.NewStatusID(), Name: name, Goals: []Goal{}}, nil
}

// AppData is the whole per-account document. It has a single owner at a
// time and is not safe for concurrent mutation. Version is maintained by
// the document store and increases on every write.
type AppData struct {
	Username string   `json:"username"`
	Statuses []Status `json:"statuses"`
	Tags     []Tag    `json:"tags"`
	Version  int64    `json:"version"`
}

// DefaultStatusNames seed a new account's board.
var DefaultStatusNames = []string{"Todo", "Doing", "Done"}

// NewAppData builds a starter document with one empty status per name.
func NewAppData(username string, statusNames ...string) (*AppData, error) {
	data := &AppData{Username: username, Statuses: []Status{}, Tags: []Tag{}}
	for _, name := range statusNames {
		status, err := NewStatus(name)
		if err != nil {
			return nil, err
		}
		data.Statuses = append(data.Statuses, status)
	}
	return data, nil
}

// Clone returns a deep copy, so a snapshot can be saved while the owner keeps
// editing.
func (d *AppData) Clone() *AppData {
	if d == nil {
		return nil
	}
	out := &AppData{
		Username: d.Username,
		Statuses: make([]Status, len(d.Statuses)),
		Tags:     slices.Clone(d.Tags),
		Version:  d.Version,
	}
	for i, status := range d.Statuses {
		goals := make([]Goal, len(status.Goals))
		for j, goal := range status.Goals {
			goal.TagIDs = slices.Clone(goal.TagIDs)
			goal.Tasks = slices.Clone(goal.Tasks)
			goals[j] = goal
		}
		status.Goals = goals
		out.Statuses[i] = status
	}
	return out
}
