package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/extract"
)

// extractResult mirrors the metadata part of a scan record.
type extractResult struct {
	SourceFiles []string       `json:"source_files"`
	FrontMatter map[string]any `json:"metadata"`
	Sidebar     map[string]any `json:"sidebar_metadata"`
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <index.md> [sidebar.md...]",
		Short: "Extract metadata from local documentation files",
		Long: `Extract runs the scan extractors on local files and prints the result as JSON.
The first file is parsed for YAML front matter, the others for sidebar fields,
later files overriding earlier ones. No network access is made.`,
		Example: `  repometa extract index.md info.md leaders.md`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := extractFiles(args[0], args[1:])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func extractFiles(index string, sidebars []string) (*extractResult, error) {
	res := &extractResult{SourceFiles: []string{}, Sidebar: map[string]any{}}

	text, err := os.ReadFile(index)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", index)
	}
	res.FrontMatter = extract.FrontMatter(string(text))
	res.SourceFiles = append(res.SourceFiles, filepath.Base(index))

	for _, path := range sidebars {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
		}
		res.Sidebar = extract.Merge(res.Sidebar, extract.Sidebar(string(text)))
		res.SourceFiles = append(res.SourceFiles, filepath.Base(path))
	}
	return res, nil
}
