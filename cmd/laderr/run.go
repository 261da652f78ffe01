package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/laderr/derivation"
	"github.com/c360studio/laderr/graph"
	"github.com/c360studio/laderr/specification"
)

const enrichedSuffix = ".enriched.yaml"

// enrichedPath places the output next to the input spec.
func enrichedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + enrichedSuffix
}

func runCmd(app *cli) *cobra.Command {
	var (
		publish   bool
		maxPasses int
		parallel  int
	)

	cmd := &cobra.Command{
		Use:   "run <spec>...",
		Short: "Derive facts from specification files",
		Long: `Run reads each specification, forward-chains the derivation rules to
fixpoint, and writes the enriched specification next to the input with a
.enriched.yaml suffix. Arguments may be doublestar glob patterns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			if maxPasses > 0 {
				app.cfg.Engine.MaxPasses = maxPasses
			}
			return runBatch(cmd.Context(), app, paths, publish, parallel)
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the enriched graph to NATS")
	cmd.Flags().IntVar(&maxPasses, "max-passes", 0, "Override the iteration ceiling (0 = automatic)")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum concurrent derivations")

	return cmd
}

// expandGlobs resolves each argument as a doublestar pattern against the
// filesystem, falling back to a literal path when it contains no meta
// characters. The result is sorted and deduplicated.
func expandGlobs(args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("spec file %s: %w", arg, err)
			}
			if _, dup := seen[arg]; !dup {
				seen[arg] = struct{}{}
				paths = append(paths, arg)
			}
			continue
		}

		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		matches, err := doublestar.Glob(os.DirFS(base), pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		for _, m := range matches {
			path := filepath.Join(base, m)
			if strings.HasSuffix(path, enrichedSuffix) {
				continue
			}
			if _, dup := seen[path]; !dup {
				seen[path] = struct{}{}
				paths = append(paths, path)
			}
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no specification files matched")
	}
	sort.Strings(paths)
	return paths, nil
}

// runBatch derives every file concurrently. Each run owns its own graph and
// rule table, so the only shared state is the optional NATS connection.
func runBatch(ctx context.Context, app *cli, paths []string, publish bool, parallel int) error {
	var publisher *graph.Publisher
	if publish {
		if app.cfg.NATS.URL == "" {
			return fmt.Errorf("--publish requires nats.url in configuration")
		}
		nc, err := nats.Connect(app.cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()
		publisher = graph.NewPublisher(nc, app.cfg.NATS.Subject)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))

	for _, path := range paths {
		path := path
		g.Go(func() error {
			return runOne(gctx, app, path, publisher)
		})
	}
	return g.Wait()
}

func runOne(ctx context.Context, app *cli, path string, publisher *graph.Publisher) error {
	res, meta, err := deriveFile(app, path)
	if err != nil {
		return err
	}

	outPath := enrichedPath(path)
	if err := specification.WriteFile(res.Graph, meta, outPath); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	printDiagnostics(path, res)
	app.logger.Info("Derivation complete",
		"spec", path,
		"out", outPath,
		"run_id", res.RunID,
		"passes", res.Passes,
		"new_facts", res.NewFacts,
		"converged", res.Converged)

	if publisher != nil {
		if err := publisher.PublishGraph(ctx, res.Graph); err != nil {
			return fmt.Errorf("publish %s: %w", path, err)
		}
	}

	if app.cfg.Engine.FailOnWarnings && res.HasDiagnostics() {
		return fmt.Errorf("%s: derivation produced diagnostics", path)
	}
	return nil
}

// deriveFile reads a specification and runs the engine over it.
func deriveFile(app *cli, path string) (*derivation.Result, specification.Metadata, error) {
	reader := specification.NewReader(app.logger)
	fg, meta, err := reader.ReadFile(path)
	if err != nil {
		return nil, meta, fmt.Errorf("read %s: %w", path, err)
	}

	res, err := derivation.Run(fg, derivation.Options{
		MaxPasses: app.cfg.Engine.MaxPasses,
		Logger:    app.logger,
	})
	if err != nil {
		return nil, meta, fmt.Errorf("derive %s: %w", path, err)
	}
	return res, meta, nil
}

func printDiagnostics(path string, res *derivation.Result) {
	for _, d := range res.Diagnostics() {
		fmt.Fprintf(os.Stderr, "%s: [%s] %s: %s\n", path, d.Kind, d.Subject, d.Message)
	}
}
