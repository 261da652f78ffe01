package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/laderr/export"
	"github.com/c360studio/laderr/report"
	"github.com/c360studio/laderr/specification"
	"github.com/c360studio/laderr/validation"
)

func exportCmd(app *cli) *cobra.Command {
	var (
		format  string
		profile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export <spec>",
		Short: "Derive and serialize a specification to RDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = app.cfg.Export.Format
			}
			if profile == "" {
				profile = app.cfg.Export.Profile
			}

			info, ok := export.GetFormatInfo(export.Format(format))
			if !ok {
				return fmt.Errorf("unsupported format: %s", format)
			}
			if _, ok := export.Profiles[export.Profile(profile)]; !ok {
				return fmt.Errorf("unsupported profile: %s", profile)
			}

			res, meta, err := deriveFile(app, args[0])
			if err != nil {
				return err
			}
			printDiagnostics(args[0], res)

			exporter := export.NewRDFExporter(res.Graph, export.Profile(profile), meta.BaseURI)
			serialized, err := exporter.Export(info.Name)
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + info.Extension
			}
			if output == "-" {
				fmt.Print(serialized)
				return nil
			}
			if err := os.WriteFile(output, []byte(serialized), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			app.logger.Info("Exported graph", "spec", args[0], "out", output, "format", format, "profile", profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVar(&profile, "profile", "", "Type-assertion profile (minimal, roles)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout)")

	return cmd
}

func reportCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "report <spec>",
		Short: "Derive a specification and print an analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := deriveFile(app, args[0])
			if err != nil {
				return err
			}
			printDiagnostics(args[0], res)

			fmt.Print(report.Build(res.Graph).Markdown())
			return nil
		},
	}
}

func validateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>...",
		Short: "Check specifications for structural problems",
		Long: `Validate reads each specification and checks it against the structural
constraints: enum values, resilience shape, scenario co-occurrence and
dangling relation targets. Violations cause a non-zero exit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}

			reader := specification.NewReader(app.logger)
			conforms := true
			for _, path := range paths {
				g, _, err := reader.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}

				rep := validation.Validate(g)
				for _, issue := range rep.Issues {
					fmt.Fprintf(os.Stderr, "%s: %s\n", path, issue)
				}
				if !rep.Conforms() {
					conforms = false
				} else {
					fmt.Printf("%s: ok\n", path)
				}
			}

			if !conforms {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}
