package models

import (
	"strings"

	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

// Validate checks the document before it is stored: names are present, ids
// are unique within their scope, colors are in range and every goal tag
// reference resolves to the palette.
func (d *AppData) Validate() error {
	if d == nil {
		return dErrors.New(dErrors.CodeValidation, "app data is required")
	}

	palette := make(map[id.TagID]struct{}, len(d.Tags))
	for _, tag := range d.Tags {
		if tag.ID.IsNil() || strings.TrimSpace(tag.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, "tags need an id and a name")
		}
		if _, dup := palette[tag.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate tag id "+tag.ID.String())
		}
		if err := tag.Color.Validate(); err != nil {
			return err
		}
		palette[tag.ID] = struct{}{}
	}

	statuses := make(map[id.StatusID]struct{}, len(d.Statuses))
	for _, status := range d.Statuses {
		if status.ID.IsNil() || strings.TrimSpace(status.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, "statuses need an id and a name")
		}
		if _, dup := statuses[status.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate status id "+status.ID.String())
		}
		statuses[status.ID] = struct{}{}

		if err := validateGoals(status.Goals, palette); err != nil {
			return err
		}
	}
	return nil
}

func validateGoals(goals []Goal, palette map[id.TagID]struct{}) error {
	seen := make(map[id.GoalID]struct{}, len(goals))
	for _, goal := range goals {
		if goal.ID.IsNil() || strings.TrimSpace(goal.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, "goals need an id and a name")
		}
		if _, dup := seen[goal.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate goal id "+goal.ID.String())
		}
		seen[goal.ID] = struct{}{}

		for _, tagID := range goal.TagIDs {
			if _, ok := palette[tagID]; !ok {
				return dErrors.New(dErrors.CodeValidation, "goal "+goal.ID.String()+" references unknown tag "+tagID.String())
			}
		}

		tasks := make(map[id.TaskID]struct{}, len(goal.Tasks))
		for _, task := range goal.Tasks {
			if task.ID.IsNil() || strings.TrimSpace(task.Name) == "" {
				return dErrors.New(dErrors.CodeValidation, "tasks need an id and a name")
			}
			if _, dup := tasks[task.ID]; dup {
				return dErrors.New(dErrors.CodeValidation, "duplicate task id "+task.ID.String())
			}
			tasks[task.ID] = struct{}{}
		}
	}
	return nil
}
