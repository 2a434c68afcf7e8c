package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repometa/pkg/config"
	"github.com/matzehuels/repometa/pkg/model"
)

// reposCommand creates the repos command.
func (c *CLI) reposCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "repos [org...]",
		Short: "List the repositories of GitHub organizations",
		Long:  `Repos lists the repositories a scan would visit, with their archived flag. Without arguments the configured organizations are listed.`,
		Example: `  repometa repos OWASP
  repometa repos --json OWASP > repos.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, func(cfg *config.Config) {
				if len(args) > 0 {
					cfg.Orgs = args
				}
			})
			if err != nil {
				return err
			}
			client, err := newClient(cfg, c.Logger)
			if err != nil {
				return err
			}
			refs, err := listOrgs(cmd.Context(), client, cfg.Orgs, c.Logger)
			if err != nil && len(refs) == 0 {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeRefsJSON(out, refs)
			}
			if len(refs) > 0 {
				fmt.Fprintln(out, renderRepoTable(refs))
			}
			printInfo("%d repositories (%d archived)", len(refs), countArchived(refs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")

	return cmd
}

func writeRefsJSON(w io.Writer, refs []model.RepositoryRef) error {
	if refs == nil {
		refs = []model.RepositoryRef{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(refs)
}

func countArchived(refs []model.RepositoryRef) int {
	n := 0
	for _, r := range refs {
		if r.Archived {
			n++
		}
	}
	return n
}

func renderRepoTable(refs []model.RepositoryRef) string {
	rows := make([][]string, len(refs))
	for i, r := range refs {
		archived := ""
		if r.Archived {
			archived = "archived"
		}
		rows[i] = []string{r.FullName(), archived}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Repository", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return s.Bold(true).Foreground(colorCyan)
			case col == 1:
				return s.Inherit(styleArchived)
			}
			return s.Foreground(colorWhite)
		}).
		String()
}
