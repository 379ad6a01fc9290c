package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"satyls/internal/analysis"
	"satyls/internal/lsp"
	"satyls/internal/project"
	"satyls/internal/version"
)

var (
	lspTCP     bool
	lspPort    int
	lspLogFile string
	lspVerbose int
	lspNoCache bool
)

func init() {
	lspCmd.Flags().BoolVar(&lspTCP, "tcp", false, "listen on TCP instead of stdio")
	lspCmd.Flags().IntVar(&lspPort, "port", 9257, "TCP port when --tcp is set")
	lspCmd.Flags().StringVar(&lspLogFile, "log-file", "", "write server logs to a file")
	lspCmd.Flags().IntVarP(&lspVerbose, "verbose", "v", 0, "log verbosity (repeatable)")
	lspCmd.Flags().BoolVar(&lspNoCache, "no-cache", false, "disable the dependency disk cache")
}

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the language server",
	Long:         `Run the language server over stdio (the default, for editor clients) or over TCP with --tcp`,
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	// Stdio carries the protocol, so logs must go elsewhere.
	var logPath *string
	if lspLogFile != "" {
		logPath = &lspLogFile
	}
	commonlog.Configure(lspVerbose, logPath)
	log := commonlog.GetLogger("satyls")

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	manifest, err := project.Find(cwd)
	if err != nil {
		log.Warningf("manifest ignored: %s", err)
		manifest = nil
	}

	var cache *analysis.DepCache
	if !lspNoCache {
		cache, err = analysis.OpenDepCache("")
		if err != nil {
			log.Warningf("dependency cache disabled: %s", err)
		}
	}

	loader := analysis.NewLoader(manifest.PackageDirs(), cache, log)
	engine := analysis.NewEngine(loader, log)

	server, err := lsp.New(lsp.Config{
		Name:         "satyls",
		Version:      version.Plain(),
		Analyzer:     engine,
		PackageRoots: packageRoots(manifest),
		Format:       manifest.FormatOptions(),
		Log:          log,
		Debug:        lspVerbose > 1,
	})
	if err != nil {
		return err
	}

	if lspTCP {
		return server.RunTCP(fmt.Sprintf("127.0.0.1:%d", lspPort))
	}
	return server.RunStdio()
}

// packageRoots joins the manifest dirs with the standard install
// location so header completion sees both.
func packageRoots(m *project.Manifest) []string {
	roots := m.PackageDirs()
	if home := os.Getenv("SATYSFI_HOME"); home != "" {
		roots = append(roots, filepath.Join(home, "dist", "packages"))
	} else if userHome, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(userHome, ".satysfi", "dist", "packages"))
	}
	return roots
}
