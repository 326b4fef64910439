package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectEditCmd(app),
		newProjectRemoveCmd(app),
		newProjectDepsCmd(app),
		newProjectCommentCmd(app),
	)

	return cmd
}

func newProjectAddCmd(a *App) *cobra.Command {
	var in app.ProjectInput
	var depends string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Dependencies = domain.ParseDependencies(depends, 0)
			p, res, err := a.Board.CreateProject(cmd.Context(), in)
			return report(cmd, res, err, fmt.Sprintf("Created project %s %s", p.DisplayID(), p.DisplayName()))
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Project name")
	cmd.Flags().StringVar(&in.Owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&in.Tag, "tag", "", "Tag")
	cmd.Flags().StringVar(&in.Image, "image", "", "Image URL or data URI")
	cmd.Flags().Var(newDateValue(&in.Start), "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().Var(newDateValue(&in.End), "end", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&depends, "depends", "", "Comma-separated project IDs this project waits on")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := a.Board.Projects()
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}

			risks := make(map[int]app.RiskSummary)
			for _, r := range a.Board.RiskAll() {
				risks[r.ProjectID] = r
			}
			items := make([]formatter.ProjectListItem, 0, len(projects))
			for _, p := range projects {
				r := risks[p.ID]
				items = append(items, formatter.ProjectListItem{Project: p, Progress: r.Progress, Risk: r.Level})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(items))
			return nil
		},
	}
}

func newProjectShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			v, err := a.Board.View(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(v))
			return nil
		},
	}
}

// newProjectEditCmd queues field edits through the autosaver; the root
// command flushes them once the command returns.
func newProjectEditCmd(a *App) *cobra.Command {
	var name, owner, tag, image, end string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.Board.Project(id); err != nil {
				return err
			}

			var patch app.ProjectPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("owner") {
				patch.Owner = &owner
			}
			if flags.Changed("tag") {
				patch.Tag = &tag
			}
			if flags.Changed("image") {
				patch.Image = &image
			}
			if flags.Changed("end") {
				patch.End = &end
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to edit: pass at least one of --name, --owner, --tag, --image, --end")
			}

			a.Board.QueueEdit(id, patch)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project #%d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag")
	cmd.Flags().StringVar(&image, "image", "", "Image URL or data URI")
	cmd.Flags().Var(newDateValue(&end), "end", "End date (YYYY-MM-DD)")

	return cmd
}

func newProjectRemoveCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			p, err := a.Board.Project(id)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(a, fmt.Sprintf("Delete project %s %s?", p.DisplayID(), p.DisplayName()))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			res, err := a.Board.DeleteProject(cmd.Context(), id)
			return report(cmd, res, err, fmt.Sprintf("Deleted project %s", p.DisplayID()))
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newProjectDepsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deps ID LIST",
		Short: `Set the projects ID waits on ("1,4" or "none")`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			list := args[1]
			if strings.EqualFold(strings.TrimSpace(list), "none") {
				list = ""
			}
			deps := domain.ParseDependencies(list, 0)
			res, err := a.Board.SetDependencies(cmd.Context(), id, deps)
			return report(cmd, res, err, fmt.Sprintf("Project #%d depends on %s", id, depsLabel(deps)))
		},
	}
}

func depsLabel(deps []int) string {
	if len(deps) == 0 {
		return "nothing"
	}
	return domain.FormatDependencies(deps)
}

func newProjectCommentCmd(a *App) *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "comment ID TEXT...",
		Short: "Add a comment to a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			res, err := a.Board.AddComment(cmd.Context(), id, author, strings.Join(args[1:], " "))
			return report(cmd, res, err, fmt.Sprintf("Commented on project #%d", id))
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "Comment author")

	return cmd
}
