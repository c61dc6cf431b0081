package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coolbeans/crossmap/pkg/catalog"
	"github.com/coolbeans/crossmap/pkg/crosswalk"
	"github.com/coolbeans/crossmap/pkg/relationship"
	"github.com/coolbeans/crossmap/pkg/tabular"
	"github.com/coolbeans/crossmap/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "crossmap",
		Short: "Control catalog and crosswalk generator",
		Long: `Crossmap ingests security-control framework spreadsheets and produces:
  - Hierarchical control catalogs as JSON artifacts
  - Crosswalk CSVs mapping controls between frameworks
  - Relationship classifications for framework revision comparisons
  - Markdown summaries of mapping coverage and change distribution`,
		Version: version,
	}

	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(crosswalkCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readRows loads an input file as an ordered row stream, choosing the
// reader from the file extension.
func readRows(input string, opts tabular.Options) ([]tabular.Row, error) {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", input)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx", ".xlsm":
		return tabular.ReadXLSX(input, opts)
	default:
		return tabular.ReadCSV(input, opts)
	}
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build a hierarchical catalog from a framework sheet",
		Long: `Build a catalog JSON artifact from an ordered framework sheet.

The sheet uses merged-cell semantics: a non-empty Function, Category, or
Subcategory cell opens a new node; empty cells continue the most recently
opened node at that level.

Example:
  crossmap catalog --input data/csf2.xlsx --sheet "CSF 2.0" --skip-rows 1 \
    --title "NIST Cybersecurity Framework (CSF) v2.0" --doc-version 2.0 \
    --output catalogs/csf2/catalog.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			title, _ := cmd.Flags().GetString("title")
			docVersion, _ := cmd.Flags().GetString("doc-version")
			sheet, _ := cmd.Flags().GetString("sheet")
			skipRows, _ := cmd.Flags().GetInt("skip-rows")
			functionCol, _ := cmd.Flags().GetString("function-col")
			categoryCol, _ := cmd.Flags().GetString("category-col")
			subcategoryCol, _ := cmd.Flags().GetString("subcategory-col")
			examplesCol, _ := cmd.Flags().GetString("examples-col")
			slugIDs, _ := cmd.Flags().GetBool("slug-ids")

			if input == "" {
				return fmt.Errorf("--input flag is required")
			}
			if output == "" {
				return fmt.Errorf("--output flag is required")
			}

			fmt.Printf("Reading %s...\n", input)
			rows, err := readRows(input, tabular.Options{Sheet: sheet, SkipRows: skipRows})
			if err != nil {
				return err
			}

			catalogRows := make([]catalog.Row, 0, len(rows))
			for _, row := range rows {
				catalogRows = append(catalogRows, catalog.Row{
					Function:    row.Get(functionCol),
					Category:    row.Get(categoryCol),
					Subcategory: row.Get(subcategoryCol),
					Examples:    row.Get(examplesCol),
				})
			}

			target := catalog.NewCatalog(title, docVersion)
			builder := catalog.NewBuilder(target)
			if slugIDs {
				builder = catalog.NewSlugBuilder(target)
			}
			built, stats := builder.Build(catalogRows)
			if err := catalog.Save(built, output); err != nil {
				return err
			}

			fmt.Printf("Built catalog: %d functions, %d categories, %d controls\n",
				stats.Functions, stats.Categories, stats.Controls)
			if stats.DroppedCategories > 0 || stats.DroppedControls > 0 {
				fmt.Printf("Warning: dropped %d categories and %d controls with no open parent\n",
					stats.DroppedCategories, stats.DroppedControls)
			}
			fmt.Printf("Saved to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().String("input", "", "framework sheet (.csv or .xlsx)")
	cmd.Flags().String("output", "", "catalog JSON output path")
	cmd.Flags().String("title", "", "catalog title")
	cmd.Flags().String("doc-version", "", "framework version recorded in metadata")
	cmd.Flags().String("sheet", "", "worksheet name for Excel input")
	cmd.Flags().Int("skip-rows", 0, "leading rows to skip before the header")
	cmd.Flags().String("function-col", "Function", "function column name")
	cmd.Flags().String("category-col", "Category", "category column name")
	cmd.Flags().String("subcategory-col", "Subcategory", "subcategory column name")
	cmd.Flags().String("examples-col", "Implementation Examples", "examples column name")
	cmd.Flags().Bool("slug-ids", false, "mint slug-style group identifiers instead of abbreviations")
	return cmd
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify comparison rows into relationship kinds",
		Long: `Classify every row of a revision comparison sheet and print the
relationship distribution. Rows flagged withdrawn-error are listed for
manual review.

Example:
  crossmap classify --input data/r4-to-r5-comparison.xlsx \
    --sheet "Rev4 Rev5 Compared" --sub-header --summary comparison-summary.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			sheet, _ := cmd.Flags().GetString("sheet")
			skipRows, _ := cmd.Flags().GetInt("skip-rows")
			subHeader, _ := cmd.Flags().GetBool("sub-header")
			idCol, _ := cmd.Flags().GetString("id-col")
			changedCol, _ := cmd.Flags().GetString("changed-col")
			detailsCol, _ := cmd.Flags().GetString("details-col")
			phrasesPath, _ := cmd.Flags().GetString("phrases")
			summaryPath, _ := cmd.Flags().GetString("summary")
			title, _ := cmd.Flags().GetString("title")

			if input == "" {
				return fmt.Errorf("--input flag is required")
			}

			phrases := relationship.DefaultPhraseSet()
			if phrasesPath != "" {
				var err error
				phrases, err = relationship.LoadPhraseSet(phrasesPath)
				if err != nil {
					return err
				}
			}

			fmt.Printf("Reading %s...\n", input)
			rows, err := readRows(input, tabular.Options{
				Sheet: sheet, SkipRows: skipRows, SkipSubHeader: subHeader,
			})
			if err != nil {
				return err
			}

			classifier := relationship.NewClassifier(phrases)
			dist := make(relationship.Distribution)
			type reviewRow struct {
				id, changed, details string
			}
			var review []reviewRow

			for _, row := range rows {
				kind := classifier.Classify(row.Get(changedCol), row.Get(detailsCol))
				dist.Observe(kind)
				if kind == relationship.KindWithdrawnError {
					review = append(review, reviewRow{
						id:      row.Get(idCol),
						changed: row.Get(changedCol),
						details: row.Get(detailsCol),
					})
				}
			}

			fmt.Println("\nRelationship distribution:")
			for _, kind := range dist.Kinds() {
				fmt.Printf("  %-26s %d\n", kind, dist[kind])
			}

			if len(review) > 0 {
				fmt.Printf("\nWarning: %d rows with unexpected withdrawal combinations need manual review:\n", len(review))
				for _, r := range review {
					fmt.Printf("  %s: changed_elements=%q change_details=%q\n", r.id, r.changed, r.details)
				}
			}

			if summaryPath != "" {
				if err := crosswalk.SaveSummary(title, dist, crosswalk.Stats{}, summaryPath); err != nil {
					return err
				}
				fmt.Printf("\nSummary written to: %s\n", summaryPath)
			}
			return nil
		},
	}

	cmd.Flags().String("input", "", "comparison sheet (.csv or .xlsx)")
	cmd.Flags().String("sheet", "", "worksheet name for Excel input")
	cmd.Flags().Int("skip-rows", 0, "leading rows to skip before the header")
	cmd.Flags().Bool("sub-header", false, "skip one descriptive row after the header")
	cmd.Flags().String("id-col", "id", "source identifier column name")
	cmd.Flags().String("changed-col", "changed_elements", "changed-elements column name")
	cmd.Flags().String("details-col", "change_details", "change-details column name")
	cmd.Flags().String("phrases", "", "phrase-set YAML file (defaults built in)")
	cmd.Flags().String("summary", "", "markdown summary output path")
	cmd.Flags().String("title", "Revision Comparison Summary", "summary report title")
	return cmd
}

// crosswalkOptions carries everything one crosswalk build needs, so the
// watch command can re-run the same build on input changes.
type crosswalkOptions struct {
	input         string
	sheet         string
	skipRows      int
	subHeader     bool
	sourceCol     string
	targetCol     string
	changedCol    string
	detailsCol    string
	classify      bool
	phrasesPath   string
	manifestPath  string
	sourceCatalog string
	targetCatalog string
	output        string
	summaryPath   string
	title         string
}

func crosswalkFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "mapping or comparison sheet (.csv or .xlsx)")
	cmd.Flags().String("sheet", "", "worksheet name for Excel input")
	cmd.Flags().Int("skip-rows", 0, "leading rows to skip before the header")
	cmd.Flags().Bool("sub-header", false, "skip one descriptive row after the header")
	cmd.Flags().String("source-col", "Focal Document Element", "source identifier column name")
	cmd.Flags().String("target-col", "Reference Document Element", "target identifier column name")
	cmd.Flags().String("changed-col", "changed_elements", "changed-elements column name")
	cmd.Flags().String("details-col", "change_details", "change-details column name")
	cmd.Flags().Bool("classify", false, "classify each row instead of using the default relationship")
	cmd.Flags().String("phrases", "", "phrase-set YAML file for --classify")
	cmd.Flags().String("manifest", "", "crosswalk manifest YAML file")
	cmd.Flags().String("source-catalog", "", "source catalog JSON for gap analysis")
	cmd.Flags().String("target-catalog", "", "target catalog JSON for identifier validation")
	cmd.Flags().String("output", "", "crosswalk CSV output path")
	cmd.Flags().String("summary", "", "markdown summary output path")
	cmd.Flags().String("title", "Crosswalk Summary", "summary report title")
}

func readCrosswalkOptions(cmd *cobra.Command) crosswalkOptions {
	var opts crosswalkOptions
	opts.input, _ = cmd.Flags().GetString("input")
	opts.sheet, _ = cmd.Flags().GetString("sheet")
	opts.skipRows, _ = cmd.Flags().GetInt("skip-rows")
	opts.subHeader, _ = cmd.Flags().GetBool("sub-header")
	opts.sourceCol, _ = cmd.Flags().GetString("source-col")
	opts.targetCol, _ = cmd.Flags().GetString("target-col")
	opts.changedCol, _ = cmd.Flags().GetString("changed-col")
	opts.detailsCol, _ = cmd.Flags().GetString("details-col")
	opts.classify, _ = cmd.Flags().GetBool("classify")
	opts.phrasesPath, _ = cmd.Flags().GetString("phrases")
	opts.manifestPath, _ = cmd.Flags().GetString("manifest")
	opts.sourceCatalog, _ = cmd.Flags().GetString("source-catalog")
	opts.targetCatalog, _ = cmd.Flags().GetString("target-catalog")
	opts.output, _ = cmd.Flags().GetString("output")
	opts.summaryPath, _ = cmd.Flags().GetString("summary")
	opts.title, _ = cmd.Flags().GetString("title")
	return opts
}

func crosswalkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crosswalk",
		Short: "Build a crosswalk CSV mapping controls between frameworks",
		Long: `Build the crosswalk CSV from a mapping or comparison sheet.

Rows are grouped by canonical source identifier; target lists are the
deduplicated union of mapped targets. Target identifiers are validated
against the target catalog, and source controls with no mapping are
emitted as source-gap rows.

Examples:
  crossmap crosswalk --input data/csf-to-800-53.xlsx --sheet Relationships \
    --manifest manifests/csf-to-800-53.yaml \
    --source-catalog catalogs/csf2/catalog.json \
    --target-catalog catalogs/800-53r5/catalog.json \
    --output content/csf2_to_800-53_crosswalk.csv

  crossmap crosswalk --input data/r4-r5-compared.xlsx --sheet "Rev4 Rev5 Compared" \
    --sub-header --classify --source-col "Control Identifier" --target-col "SORT-AS" \
    --manifest manifests/rev5-to-rev4.yaml --output content/rev5_to_rev4_crosswalk.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := readCrosswalkOptions(cmd)
			if opts.input == "" {
				return fmt.Errorf("--input flag is required")
			}
			if opts.output == "" {
				return fmt.Errorf("--output flag is required")
			}
			return runCrosswalk(opts)
		},
	}

	crosswalkFlags(cmd)
	return cmd
}

func runCrosswalk(opts crosswalkOptions) error {
	manifest := crosswalk.DefaultManifest()
	if opts.manifestPath != "" {
		var err error
		manifest, err = crosswalk.LoadManifest(opts.manifestPath)
		if err != nil {
			return err
		}
	}

	var classifier *relationship.Classifier
	if opts.classify {
		phrases := relationship.DefaultPhraseSet()
		if opts.phrasesPath != "" {
			var err error
			phrases, err = relationship.LoadPhraseSet(opts.phrasesPath)
			if err != nil {
				return err
			}
		}
		classifier = relationship.NewClassifier(phrases)
	}

	var targetIDs, sourceIDs map[string]bool
	if opts.targetCatalog != "" {
		c, err := catalog.Load(opts.targetCatalog)
		if err != nil {
			return err
		}
		targetIDs = c.ControlIDs()
		fmt.Printf("Loaded %d identifiers from target catalog %s\n", len(targetIDs), opts.targetCatalog)
	}
	if opts.sourceCatalog != "" {
		c, err := catalog.Load(opts.sourceCatalog)
		if err != nil {
			return err
		}
		sourceIDs = c.ControlIDs()
		fmt.Printf("Loaded %d identifiers from source catalog %s\n", len(sourceIDs), opts.sourceCatalog)
	}

	fmt.Printf("Reading %s...\n", opts.input)
	rows, err := readRows(opts.input, tabular.Options{
		Sheet: opts.sheet, SkipRows: opts.skipRows, SkipSubHeader: opts.subHeader,
	})
	if err != nil {
		return err
	}

	dist := make(relationship.Distribution)
	crosswalkRows := make([]crosswalk.Row, 0, len(rows))
	for _, row := range rows {
		r := crosswalk.Row{
			SourceRaw: row.Get(opts.sourceCol),
			TargetRaw: row.Get(opts.targetCol),
		}
		if classifier != nil {
			r.Kind = classifier.Classify(row.Get(opts.changedCol), row.Get(opts.detailsCol))
			dist.Observe(r.Kind)
		}
		crosswalkRows = append(crosswalkRows, r)
	}

	result := crosswalk.NewBuilder(manifest).Build(crosswalkRows, targetIDs, sourceIDs)

	if err := crosswalk.SaveCSV(result, opts.output); err != nil {
		return err
	}

	fmt.Printf("\nCreated %s\n", opts.output)
	fmt.Printf("  - Mapped controls: %d\n", result.Stats.Mapped)
	fmt.Printf("  - Source gaps: %d (new: %d, restored: %d)\n",
		result.Stats.SourceGaps, result.Stats.NewControls, result.Stats.RestoredControls)
	if result.Stats.Excluded > 0 {
		fmt.Printf("  - Excluded withdrawn-family rows: %d\n", result.Stats.Excluded)
	}

	printUnknownTargets(result.UnknownTargets)
	if len(result.NeedsReview) > 0 {
		fmt.Printf("\nWarning: %d controls classified withdrawn-error need manual review:\n", len(result.NeedsReview))
		for _, id := range result.NeedsReview {
			fmt.Printf("  - %s\n", id)
		}
	}

	if opts.summaryPath != "" {
		if err := crosswalk.SaveSummary(opts.title, dist, result.Stats, opts.summaryPath); err != nil {
			return err
		}
		fmt.Printf("\nSummary written to: %s\n", opts.summaryPath)
	}
	return nil
}

// printUnknownTargets reports target identifiers absent from the target
// catalog. The mappings referencing them stay in the output; the warning
// exists so they can be reviewed.
func printUnknownTargets(unknown []string) {
	if len(unknown) == 0 {
		return
	}

	fmt.Printf("\nWarning: %d target identifiers not found in target catalog:\n", len(unknown))
	shown := unknown
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, id := range shown {
		fmt.Printf("  - %s\n", id)
	}
	if len(unknown) > 10 {
		fmt.Printf("  ... and %d more\n", len(unknown)-10)
	}
	fmt.Println("These mappings are kept in the output but may need review.")
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the crosswalk whenever its inputs change",
		Long: `Run the crosswalk build, then keep watching the input sheet and
catalogs and rebuild on every change. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := readCrosswalkOptions(cmd)
			debounceMs, _ := cmd.Flags().GetInt("debounce-ms")
			if opts.input == "" {
				return fmt.Errorf("--input flag is required")
			}
			if opts.output == "" {
				return fmt.Errorf("--output flag is required")
			}

			rebuild := func() {
				if err := runCrosswalk(opts); err != nil {
					fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
				}
			}
			rebuild()

			files := []string{opts.input}
			if opts.manifestPath != "" {
				files = append(files, opts.manifestPath)
			}
			if opts.sourceCatalog != "" {
				files = append(files, opts.sourceCatalog)
			}
			if opts.targetCatalog != "" {
				files = append(files, opts.targetCatalog)
			}

			watcher, err := watch.New(files, time.Duration(debounceMs)*time.Millisecond, func(path string) {
				fmt.Printf("\nChange detected in %s, rebuilding...\n", path)
				rebuild()
			})
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Printf("\nWatching %d files for changes (Ctrl-C to stop)\n", len(files))
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			fmt.Println("\nStopping watch")
			return nil
		},
	}

	crosswalkFlags(cmd)
	cmd.Flags().Int("debounce-ms", 500, "delay between a change and the rebuild")
	return cmd
}
