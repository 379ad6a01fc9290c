package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"satyls/internal/diag"
	"satyls/internal/format"
	"satyls/internal/parser"
	"satyls/internal/project"
	"satyls/internal/source"
)

var (
	formatWrite bool
	formatCheck bool
)

func init() {
	formatCmd.Flags().BoolVarP(&formatWrite, "write", "w", false, "write result back to the file instead of stdout")
	formatCmd.Flags().BoolVar(&formatCheck, "check", false, "exit non-zero if any file is not formatted, print nothing")
}

var formatCmd = &cobra.Command{
	Use:          "format [flags] <file>...",
	Short:        "Format documents canonically",
	Long:         `Format documents into canonical layout. Files with syntax errors are left untouched and reported`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	configureColor(cmd)

	paths, err := collectDocuments(args)
	if err != nil {
		return err
	}

	dirty := 0
	for _, path := range paths {
		changed, err := formatOne(path)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "error")
			fmt.Fprintf(os.Stderr, ": %s: %s\n", path, err)
			dirty++
			continue
		}
		if changed {
			dirty++
			if formatCheck {
				fmt.Println(path)
			}
		}
	}

	if formatCheck && dirty > 0 {
		return fmt.Errorf("%d file(s) not formatted", dirty)
	}
	return nil
}

func formatOne(path string) (changed bool, err error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return false, err
	}
	file := fs.Get(id)

	bag := diag.NewBag(200)
	root := parser.ParseFile(file, bag)
	if bag.HasErrors() {
		return false, fmt.Errorf("document has syntax errors, not formatting")
	}

	manifest, _ := project.Find(filepath.Dir(path))
	formatted := format.Format(root, manifest.FormatOptions())
	if formatted == string(file.Content) {
		return false, nil
	}
	if !format.CheckRoundTrip(file, formatted) {
		return false, fmt.Errorf("formatting would change document content, refusing")
	}

	if formatCheck {
		return true, nil
	}
	if formatWrite {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return false, err
		}
		color.New(color.FgGreen).Print("formatted")
		fmt.Printf(" %s\n", path)
		return true, nil
	}
	fmt.Print(formatted)
	return true, nil
}
