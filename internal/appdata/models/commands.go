package models

import (
	"strings"

	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

// ToggleStar flips IsStarred on the first goal with goalID, scanning statuses
// in order and goals in order. No sequence is reordered.
func (d *AppData) ToggleStar(goalID id.GoalID) error {
	goal := d.goalRef(goalID)
	if goal == nil {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	goal.IsStarred = !goal.IsStarred
	return nil
}

// FindGoal returns a copy of the goal with goalID.
func (d *AppData) FindGoal(goalID id.GoalID) (Goal, error) {
	goal := d.goalRef(goalID)
	if goal == nil {
		return Goal{}, dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	return *goal, nil
}

func (d *AppData) AddStatus(status Status) error {
	if strings.TrimSpace(status.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "status name is required")
	}
	if d.statusRef(status.ID) != nil {
		return dErrors.New(dErrors.CodeConflict, "status already exists")
	}
	if status.Goals == nil {
		status.Goals = []Goal{}
	}
	d.Statuses = append(d.Statuses, status)
	return nil
}

func (d *AppData) AddGoal(statusID id.StatusID, goal Goal) error {
	status := d.statusRef(statusID)
	if status == nil {
		return dErrors.New(dErrors.CodeNotFound, "status not found")
	}
	if strings.TrimSpace(goal.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "goal name is required")
	}
	for _, g := range status.Goals {
		if g.ID == goal.ID {
			return dErrors.New(dErrors.CodeConflict, "goal already exists")
		}
	}
	for _, tagID := range goal.TagIDs {
		if d.tagRef(tagID) == nil {
			return dErrors.New(dErrors.CodeValidation, "goal references an unknown tag")
		}
	}
	if goal.TagIDs == nil {
		goal.TagIDs = []id.TagID{}
	}
	if goal.Tasks == nil {
		goal.Tasks = []Task{}
	}
	status.Goals = append(status.Goals, goal)
	return nil
}

func (d *AppData) AddTask(goalID id.GoalID, task Task) error {
	goal := d.goalRef(goalID)
	if goal == nil {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	if strings.TrimSpace(task.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "task name is required")
	}
	for _, t := range goal.Tasks {
		if t.ID == task.ID {
			return dErrors.New(dErrors.CodeConflict, "task already exists")
		}
	}
	goal.Tasks = append(goal.Tasks, task)
	return nil
}

// EditTask renames a task and sets its done flag. An empty name keeps the
// current one.
func (d *AppData) EditTask(goalID id.GoalID, taskID id.TaskID, name string, done bool) error {
	task, err := d.taskRef(goalID, taskID)
	if err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" {
		task.Name = name
	}
	task.Done = done
	return nil
}

func (d *AppData) RemoveTask(goalID id.GoalID, taskID id.TaskID) error {
	goal := d.goalRef(goalID)
	if goal == nil {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	for i, t := range goal.Tasks {
		if t.ID == taskID {
			goal.Tasks = append(goal.Tasks[:i], goal.Tasks[i+1:]...)
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "task not found")
}

func (d *AppData) AddTag(tag Tag) error {
	if strings.TrimSpace(tag.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "tag name is required")
	}
	if err := tag.Color.Validate(); err != nil {
		return err
	}
	if d.tagRef(tag.ID) != nil {
		return dErrors.New(dErrors.CodeConflict, "tag already exists")
	}
	d.Tags = append(d.Tags, tag)
	return nil
}

// RemoveTag drops the tag from the palette and from every goal that
// references it.
func (d *AppData) RemoveTag(tagID id.TagID) error {
	index := -1
	for i, t := range d.Tags {
		if t.ID == tagID {
			index = i
			break
		}
	}
	if index < 0 {
		return dErrors.New(dErrors.CodeNotFound, "tag not found")
	}
	d.Tags = append(d.Tags[:index], d.Tags[index+1:]...)

	for si := range d.Statuses {
		for gi := range d.Statuses[si].Goals {
			goal := &d.Statuses[si].Goals[gi]
			goal.TagIDs = removeTagID(goal.TagIDs, tagID)
		}
	}
	return nil
}

// AttachTag appends tagID to the goal's tags; attaching twice is a no-op.
func (d *AppData) AttachTag(goalID id.GoalID, tagID id.TagID) error {
	goal := d.goalRef(goalID)
	if goal == nil {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	if d.tagRef(tagID) == nil {
		return dErrors.New(dErrors.CodeNotFound, "tag not found")
	}
	if goal.HasTag(tagID) {
		return nil
	}
	goal.TagIDs = append(goal.TagIDs, tagID)
	return nil
}

func (d *AppData) DetachTag(goalID id.GoalID, tagID id.TagID) error {
	goal := d.goalRef(goalID)
	if goal == nil {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	goal.TagIDs = removeTagID(goal.TagIDs, tagID)
	return nil
}

// StarredGoals lists starred goals in board order.
func (d *AppData) StarredGoals() []Goal {
	var out []Goal
	d.eachGoal(func(g *Goal) {
		if g.IsStarred {
			out = append(out, *g)
		}
	})
	return out
}

// GoalsWithTag lists goals carrying tagID in board order.
func (d *AppData) GoalsWithTag(tagID id.TagID) []Goal {
	var out []Goal
	d.eachGoal(func(g *Goal) {
		if g.HasTag(tagID) {
			out = append(out, *g)
		}
	})
	return out
}

// Tag resolves a palette entry.
func (d *AppData) Tag(tagID id.TagID) (Tag, bool) {
	tag := d.tagRef(tagID)
	if tag == nil {
		return Tag{}, false
	}
	return *tag, true
}

func (d *AppData) eachGoal(fn func(*Goal)) {
	for si := range d.Statuses {
		for gi := range d.Statuses[si].Goals {
			fn(&d.Statuses[si].Goals[gi])
		}
	}
}

func (d *AppData) statusRef(statusID id.StatusID) *Status {
	for i := range d.Statuses {
		if d.Statuses[i].ID == statusID {
			return &d.Statuses[i]
		}
	}
	return nil
}

func (d *AppData) goalRef(goalID id.GoalID) *Goal {
	for si := range d.Statuses {
		for gi := range d.Statuses[si].Goals {
			if d.Statuses[si].Goals[gi].ID == goalID {
				return &d.Statuses[si].Goals[gi]
			}
		}
	}
	return nil
}

func (d *AppData) taskRef(goalID id.GoalID, taskID id.TaskID) (*Task, error) {
	goal := d.goalRef(goalID)
	if goal == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	for i := range goal.Tasks {
		if goal.Tasks[i].ID == taskID {
			return &goal.Tasks[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "task not found")
}

func (d *AppData) tagRef(tagID id.TagID) *Tag {
	for i := range d.Tags {
		if d.Tags[i].ID == tagID {
			return &d.Tags[i]
		}
	}
	return nil
}

func removeTagID(ids []id.TagID, tagID id.TagID) []id.TagID {
	out := make([]id.TagID, 0, len(ids))
	for _, t := range ids {
		if t != tagID {
			out = append(out, t)
		}
	}
	return out
}
