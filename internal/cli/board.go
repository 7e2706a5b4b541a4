package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tasquest/internal/appdata/models"
	id "tasquest/pkg/domain"
	dErrors "tasquest/pkg/domain-errors"
)

func showCmd(a *app) *cobra.Command {
	var (
		opts renderOptions
		tag  string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tag != "" {
				tagID, err := id.ParseTagID(tag)
				if err != nil {
					return err
				}
				opts.tagFilter = &tagID
			}
			_, data, err := a.resume(cmd.Context())
			if err != nil {
				return err
			}
			renderBoard(cmd.OutOrStdout(), data, opts)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.starredOnly, "starred", false, "only starred goals")
	cmd.Flags().StringVar(&tag, "tag", "", "only goals carrying this tag id")
	return cmd
}

func starCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "star <goal-id>",
		Short: "Toggle a goal's star",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := id.ParseGoalID(args[0])
			if err != nil {
				return err
			}
			who, _, err := a.resume(cmd.Context())
			if err != nil {
				return err
			}
			goal, err := a.client.Data().ToggleStar(cmd.Context(), who.ID, goalID)
			if err != nil {
				return err
			}
			state := "unstarred"
			if goal.IsStarred {
				state = "starred"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", goal.Name, state)
			return nil
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "status", Short: "Manage board columns"}
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Append a status column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.NewStatus(args[0])
			if err != nil {
				return err
			}
			if err := a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.AddStatus(status)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status.ID)
			return nil
		},
	}
	cmd.AddCommand(add)
	return cmd
}

func goalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "goal", Short: "Manage goals"}

	var due string
	add := &cobra.Command{
		Use:   "add <status-id> <name>",
		Short: "Add a goal to a status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			statusID, err := id.ParseStatusID(args[0])
			if err != nil {
				return err
			}
			dueDate := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Minute)
			if due != "" {
				if dueDate, err = time.ParseInLocation(models.DueDateLayout, due, time.Local); err != nil {
					return dErrors.New(dErrors.CodeBadRequest, "due date must look like "+models.DueDateLayout)
				}
			}
			goal, err := models.NewGoal(args[1], dueDate)
			if err != nil {
				return err
			}
			if err := a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.AddGoal(statusID, goal)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), goal.ID)
			return nil
		},
	}
	add.Flags().StringVar(&due, "due", "", "due date ("+models.DueDateLayout+"), default one week from now")
	cmd.AddCommand(add)
	return cmd
}

func tagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "tag", Short: "Manage tags"}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a tag to the palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := models.ParseHexColor(color)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid color")
			}
			tag, err := models.NewTag(args[0], c)
			if err != nil {
				return err
			}
			if err := a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.AddTag(tag)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tag.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "#4a90d9", "tag color as #rrggbb")

	attach := &cobra.Command{
		Use:   "attach <goal-id> <tag-id>",
		Short: "Attach a tag to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, tagID, err := parseGoalAndTag(args)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.AttachTag(goalID, tagID)
			})
		},
	}

	detach := &cobra.Command{
		Use:   "detach <goal-id> <tag-id>",
		Short: "Detach a tag from a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, tagID, err := parseGoalAndTag(args)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.DetachTag(goalID, tagID)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "remove <tag-id>",
		Short: "Delete a tag and detach it from every goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tagID, err := id.ParseTagID(args[0])
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.RemoveTag(tagID)
			})
		},
	}

	cmd.AddCommand(add, attach, detach, remove)
	return cmd
}

func taskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage a goal's tasks"}

	add := &cobra.Command{
		Use:   "add <goal-id> <name>",
		Short: "Add a task to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, err := id.ParseGoalID(args[0])
			if err != nil {
				return err
			}
			task, err := models.NewTask(args[1])
			if err != nil {
				return err
			}
			if err := a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.AddTask(goalID, task)
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}

	var undo bool
	done := &cobra.Command{
		Use:   "done <goal-id> <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, taskID, err := parseGoalAndTask(args)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.EditTask(goalID, taskID, "", !undo)
			})
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the task not done")

	remove := &cobra.Command{
		Use:   "remove <goal-id> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			goalID, taskID, err := parseGoalAndTask(args)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(data *models.AppData) error {
				return data.RemoveTask(goalID, taskID)
			})
		},
	}

	cmd.AddCommand(add, done, remove)
	return cmd
}

func parseGoalAndTag(args []string) (id.GoalID, id.TagID, error) {
	goalID, err := id.ParseGoalID(args[0])
	if err != nil {
		return id.GoalID{}, id.TagID{}, err
	}
	tagID, err := id.ParseTagID(args[1])
	if err != nil {
		return id.GoalID{}, id.TagID{}, err
	}
	return goalID, tagID, nil
}

func parseGoalAndTask(args []string) (id.GoalID, id.TaskID, error) {
	goalID, err := id.ParseGoalID(args[0])
	if err != nil {
		return id.GoalID{}, id.TaskID{}, err
	}
	taskID, err := id.ParseTaskID(args[1])
	if err != nil {
		return id.GoalID{}, id.TaskID{}, err
	}
	return goalID, taskID, nil
}
