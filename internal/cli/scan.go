package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repometa/pkg/config"
	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/integrations/github"
	"github.com/matzehuels/repometa/pkg/model"
	"github.com/matzehuels/repometa/pkg/observability"
	"github.com/matzehuels/repometa/pkg/report"
	"github.com/matzehuels/repometa/pkg/scan"
)

// scanOptions holds the flags of the scan command.
type scanOptions struct {
	orgs    []string
	repos   []string
	workers int
	output  string
	noCache bool
	refresh bool
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan organization repositories and write metadata reports",
		Long: `Scan lists every repository of the configured organizations, fetches their
documentation files, extracts front matter and sidebar metadata, and writes
CSV, JSON and markdown reports to the output directory.

Records are cached per repository; a second run within the cache TTL fetches
nothing.`,
		Example: `  # Scan the default organization
  repometa scan

  # Scan two organizations into ./out without touching the cache
  repometa scan --org OWASP --org owasp-modsecurity --output out --no-cache

  # Rescan a single repository
  repometa scan --repo OWASP/www-project-zap --refresh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := c.loadConfig(cmd, func(cfg *config.Config) {
				if len(opts.orgs) > 0 {
					cfg.Orgs = opts.orgs
				}
				if flags.Changed("workers") {
					cfg.Workers = opts.workers
				}
				if flags.Changed("output") {
					cfg.OutputDir = opts.output
				}
			})
			if err != nil {
				return err
			}
			return c.runScan(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.orgs, "org", nil, "organization to scan (repeatable)")
	cmd.Flags().StringArrayVar(&opts.repos, "repo", nil, "scan only this owner/name repository (repeatable)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", scan.DefaultWorkers, "concurrent repository scans")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "neither read nor write the cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached records but store fresh ones")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, cfg *config.Config, opts scanOptions) error {
	runID := uuid.NewString()
	logger := c.Logger.With("run", runID)

	store, err := newStore(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	var refs []model.RepositoryRef
	if len(opts.repos) > 0 {
		if refs, err = parseRefs(opts.repos); err != nil {
			return err
		}
	} else {
		// Listing failures were already reported; scan whatever was listed.
		refs, _ = listOrgs(ctx, client, cfg.Orgs, logger)
	}
	if len(refs) == 0 {
		printWarning("No repositories found")
	}

	counters := &observability.Counters{}
	scanner := scan.NewScanner(client, store,
		scan.WithHooks(counters),
		scan.WithLogger(logger),
		scan.WithRefresh(opts.refresh),
		scan.WithFiles(cfg.IndexFile(), cfg.SidebarFiles()...),
	)

	spinner := newSpinner(ctx, fmt.Sprintf("Scanning %d repositories...", len(refs)))
	runner := scan.NewRunner(scanner,
		scan.WithWorkers(cfg.Workers),
		scan.WithProgress(func(done, total int, _ *model.Record) {
			spinner.SetMessage(fmt.Sprintf("Scanning repositories %d/%d...", done, total))
		}),
	)

	prog := newProgress(logger)
	spinner.Start()
	records := runner.Run(ctx, refs)
	spinner.Stop()
	if err := ctx.Err(); err != nil {
		return err
	}
	prog.done("Scanned repositories", "count", len(records))

	rep := report.Aggregate(records)
	rep.RunID = runID
	rep.GeneratedAt = time.Now().UTC()

	files, err := rep.WriteAll(cfg.OutputDir)
	if err != nil {
		return err
	}

	printSuccess("Scanned %s repositories", StyleNumber.Render(fmt.Sprint(len(records))))
	printScanStats(counters.Snapshot())
	for _, f := range files {
		printFile(f)
	}
	if len(rep.Rows) > 0 {
		fmt.Println(renderFieldTable(rep.FrontMatterCounts, rep.SidebarCounts))
	}
	return nil
}

// parseRefs turns owner/name arguments into references. Archived state is
// unknown without a listing and left false.
func parseRefs(args []string) ([]model.RepositoryRef, error) {
	refs := make([]model.RepositoryRef, 0, len(args))
	for _, arg := range args {
		owner, name, err := github.ParseRepoRef(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "repository %q", arg)
		}
		refs = append(refs, model.RepositoryRef{Owner: owner, Name: name})
	}
	return refs, nil
}

// orgLister lists the repositories of an organization.
type orgLister interface {
	ListOrgRepos(ctx context.Context, org string) ([]model.RepositoryRef, error)
}

// listOrgs lists every org in turn. A failing org is reported and whatever
// was listed before the failure is kept. The returned error is the last
// listing failure, if any; refs are valid either way.
func listOrgs(ctx context.Context, l orgLister, orgs []string, logger *log.Logger) ([]model.RepositoryRef, error) {
	var (
		refs    []model.RepositoryRef
		lastErr error
	)
	for _, org := range orgs {
		spinner := newSpinner(ctx, fmt.Sprintf("Listing %s repositories...", org))
		spinner.Start()
		prog := newProgress(logger)
		listed, err := l.ListOrgRepos(ctx, org)
		spinner.Stop()

		if err != nil {
			lastErr = err
			logger.Warn("listing incomplete", "org", org, "listed", len(listed), "err", err)
			printWarning("Listing %s stopped after %d repositories: %s", org, len(listed), errors.UserMessage(err))
		} else {
			prog.done("Listed repositories", "org", org, "count", len(listed))
		}
		refs = append(refs, listed...)
	}
	return refs, lastErr
}
