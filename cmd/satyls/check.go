package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"satyls/internal/analysis"
	"satyls/internal/diag"
	"satyls/internal/project"
)

var (
	checkJobs    int
	checkNoDeps  bool
	checkNoCache bool
)

func init() {
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "max parallel workers (0=one per file)")
	checkCmd.Flags().BoolVar(&checkNoDeps, "no-deps", false, "skip header dependency resolution")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the dependency disk cache")
}

var checkCmd = &cobra.Command{
	Use:          "check [flags] <file|directory>...",
	Short:        "Run diagnostics over documents",
	Long:         `Run diagnostics over the given documents or directories and print every finding. Exits non-zero when any document has errors`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	posColor     = color.New(color.Faint)
)

func runCheck(cmd *cobra.Command, args []string) error {
	configureColor(cmd)

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	paths, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents found under %s", strings.Join(args, ", "))
	}

	var loader *analysis.Loader
	if !checkNoDeps {
		var cache *analysis.DepCache
		if !checkNoCache {
			cache, _ = analysis.OpenDepCache("")
		}
		manifest, _ := project.Find(filepath.Dir(paths[0]))
		loader = analysis.NewLoader(manifest.PackageDirs(), cache, commonlog.GetLogger("satyls.check"))
	}

	results := analysis.AnalyzeFiles(cmd.Context(), loader, paths, checkJobs)

	shown, errors, warnings := 0, 0, 0
	for _, res := range results {
		if res.Err != nil {
			errorColor.Fprintf(os.Stderr, "error")
			fmt.Fprintf(os.Stderr, ": %s: %s\n", res.Path, res.Err)
			errors++
			continue
		}
		for _, d := range res.Snap.Diags {
			switch d.Severity {
			case diag.SevError:
				errors++
			case diag.SevWarning:
				warnings++
			}
			if shown < maxDiags {
				printDiagnostic(res, d)
				shown++
			}
		}
	}

	if !quiet {
		if errors == 0 && warnings == 0 {
			fmt.Printf("checked %d document(s), no issues\n", len(results))
		} else {
			fmt.Printf("checked %d document(s): %d error(s), %d warning(s)\n", len(results), errors, warnings)
		}
		if total := errors + warnings; total > shown {
			fmt.Printf("(%d more not shown, raise --max-diagnostics)\n", total-shown)
		}
	}
	if errors > 0 {
		return fmt.Errorf("%d error(s)", errors)
	}
	return nil
}

func printDiagnostic(res analysis.FileResult, d diag.Diagnostic) {
	lc := res.Snap.File.LineColAt(d.Primary.Start)
	posColor.Printf("%s:%d:%d: ", res.Path, lc.Line, lc.Col)
	switch d.Severity {
	case diag.SevError:
		errorColor.Print("error")
	case diag.SevWarning:
		warningColor.Print("warning")
	default:
		infoColor.Print("info")
	}
	fmt.Printf(" [%s] %s\n", d.Code, d.Message)
	for _, n := range d.Notes {
		nlc := res.Snap.File.LineColAt(n.Span.Start)
		posColor.Printf("  %s:%d:%d: ", res.Path, nlc.Line, nlc.Col)
		fmt.Printf("note: %s\n", n.Msg)
	}
}

// collectDocuments expands arguments into a sorted list of document
// paths. Directories are walked recursively.
func collectDocuments(args []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isDocument(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isDocument(path string) bool {
	switch filepath.Ext(path) {
	case ".saty", ".satyh", ".satyg":
		return true
	}
	return false
}
