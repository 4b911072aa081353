package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/snedea/arcane-auditor/internal/pipeline"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Path   string
	Format string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Parse definition files and report the project context",
		Long: `Parse every recognized definition file under a path, build the
project context (typed models, script-field inventory, pre-parsed syntax
trees), and report what was parsed.

Exit status is non-zero when any file failed to parse.`,
		Example: `  # Analyze the current directory
  arcane analyze

  # Analyze a specific app directory as JSON
  arcane analyze ./myapp --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = "."
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json (overrides --output)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cfg := configFrom(cmd.Context())

	files, readErrors, err := collectFiles(opts.Path, cfg.Exclude)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		Logger:  newLogger(cfg),
		Workers: cfg.Workers,
	})
	pc := p.ParseBatch(cmd.Context(), files)
	pc.ParsingErrors = append(pc.ParsingErrors, readErrors...)

	format := cfg.Output
	if opts.Format != "" {
		format = opts.Format
	}

	switch format {
	case "json":
		if err := renderJSON(cmd.OutOrStdout(), pc); err != nil {
			return err
		}
	default:
		renderText(cmd.OutOrStdout(), pc)
	}

	if len(pc.ParsingErrors) > 0 {
		return fmt.Errorf("%d file(s) failed to parse", len(pc.ParsingErrors))
	}
	return nil
}

// batchReport is the JSON output shape.
type batchReport struct {
	Pages         []string          `json:"pages"`
	Fragments     []string          `json:"fragments"`
	App           string            `json:"app,omitempty"`
	Site          string            `json:"site,omitempty"`
	Scripts       []string          `json:"scripts"`
	MissingKinds  []string          `json:"missingKinds,omitempty"`
	ParsingErrors []string          `json:"parsingErrors,omitempty"`
	ScriptFields  map[string]int    `json:"scriptFields"`
}

func buildReport(pc *pipeline.ProjectContext) batchReport {
	report := batchReport{
		Pages:         make([]string, 0, len(pc.Pages)),
		Fragments:     make([]string, 0, len(pc.Fragments)),
		Scripts:       make([]string, 0, len(pc.Scripts)),
		MissingKinds:  pc.Coverage.Missing(),
		ParsingErrors: pc.ParsingErrors,
		ScriptFields:  make(map[string]int),
	}
	for _, id := range sortedKeys(pc.Pages) {
		key := pipeline.ModelKey(pc.Pages[id])
		report.Pages = append(report.Pages, id)
		report.ScriptFields[key] = len(pc.CachedScriptFields(key))
	}
	for _, id := range sortedKeys(pc.Fragments) {
		key := pipeline.ModelKey(pc.Fragments[id])
		report.Fragments = append(report.Fragments, id)
		report.ScriptFields[key] = len(pc.CachedScriptFields(key))
	}
	for _, id := range sortedKeys(pc.Scripts) {
		key := pipeline.ModelKey(pc.Scripts[id])
		report.Scripts = append(report.Scripts, id)
		report.ScriptFields[key] = len(pc.CachedScriptFields(key))
	}
	if pc.App != nil {
		report.App = pc.App.ID()
	}
	if pc.Site != nil {
		report.Site = pc.Site.ID()
	}
	return report
}

func renderJSON(w io.Writer, pc *pipeline.ProjectContext) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildReport(pc))
}

func renderText(w io.Writer, pc *pipeline.ProjectContext) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Count"})
	t.AppendRow(table.Row{"pages", len(pc.Pages)})
	t.AppendRow(table.Row{"fragments", len(pc.Fragments)})
	t.AppendRow(table.Row{"apps", boolCount(pc.App != nil)})
	t.AppendRow(table.Row{"sites", boolCount(pc.Site != nil)})
	t.AppendRow(table.Row{"scripts", len(pc.Scripts)})
	t.Render()

	if missing := pc.Coverage.Missing(); len(missing) > 0 {
		fmt.Fprintf(w, "\nPartial coverage: no %s definitions in this batch\n", strings.Join(missing, ", "))
	}

	if len(pc.ParsingErrors) > 0 {
		fmt.Fprintf(w, "\nParse failures:\n")
		for _, e := range pc.ParsingErrors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
}

func boolCount(present bool) int {
	if present {
		return 1
	}
	return 0
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
