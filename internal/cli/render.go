package cli

import (
	"fmt"
	"io"
	"strings"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
)

type renderOptions struct {
	starredOnly bool
	tagFilter   *id.TagID
}

// renderBoard prints the greeting, one block per status with its palette
// color, and one row per goal with star, due date and compact tags.
func renderBoard(w io.Writer, data *models.AppData, opts renderOptions) {
	fmt.Fprintf(w, "Hello, %s!\n", data.Username)
	shown := visibleGoals(data, opts)
	for i, status := range data.Statuses {
		bg := models.BackgroundColorFor(i, len(data.Statuses))
		fmt.Fprintf(w, "\n%s  %s  (%s)\n", status.Name, bg.Hex(), status.ID)

		rows := 0
		for _, goal := range status.Goals {
			if _, ok := shown[goal.ID]; !ok {
				continue
			}
			rows++
			renderGoal(w, data, goal)
		}
		if rows == 0 {
			fmt.Fprintln(w, "  (no goals)")
		}
	}

	if len(data.Tags) > 0 {
		fmt.Fprintln(w, "\nTags")
		for _, tag := range data.Tags {
			fmt.Fprintf(w, "  %s  %s  (%s)\n", tag.Name, tag.Color.Hex(), tag.ID)
		}
	}
}

func renderGoal(w io.Writer, data *models.AppData, goal models.Goal) {
	star := "☆"
	if goal.IsStarred {
		star = "★"
	}
	line := fmt.Sprintf("  %s %s  due %s", star, goal.Name, models.FormatDueDate(goal.DueDate))
	if tags := data.CompactTags(goal); len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = "[" + models.TagDisplayName(tag.Name) + "]"
		}
		line += "  " + strings.Join(names, " ")
	}
	fmt.Fprintf(w, "%s  (%s)\n", line, goal.ID)

	for _, task := range goal.Tasks {
		mark := " "
		if task.Done {
			mark = "x"
		}
		fmt.Fprintf(w, "      [%s] %s  (%s)\n", mark, task.Name, task.ID)
	}
}

// visibleGoals narrows the board to the goals returned by the starred and
// tag queries that opts turns on.
func visibleGoals(data *models.AppData, opts renderOptions) map[id.GoalID]struct{} {
	shown := make(map[id.GoalID]struct{})
	for _, status := range data.Statuses {
		for _, g := range status.Goals {
			shown[g.ID] = struct{}{}
		}
	}

	keep := func(goals []models.Goal) {
		matched := make(map[id.GoalID]struct{}, len(goals))
		for _, g := range goals {
			matched[g.ID] = struct{}{}
		}
		for goalID := range shown {
			if _, ok := matched[goalID]; !ok {
				delete(shown, goalID)
			}
		}
	}
	if opts.starredOnly {
		keep(data.StarredGoals())
	}
	if opts.tagFilter != nil {
		keep(data.GoalsWithTag(*opts.tagFilter))
	}
	return shown
}
