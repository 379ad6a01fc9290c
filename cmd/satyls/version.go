package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"satyls/internal/version"
)

var (
	versionFormat string
	versionFull   bool
)

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include build metadata")
}

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:          "version",
	Short:        "Show build information",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configureColor(cmd)

		switch versionFormat {
		case "json":
			payload := versionPayload{Tool: "satyls", Version: version.Plain()}
			if versionFull {
				payload.GitCommit = version.GitCommit
				payload.BuildDate = version.BuildDate
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			shown := version.Version
			if !isTerminal(os.Stdout) {
				shown = version.Plain()
			}
			fmt.Printf("satyls %s\n", shown)
			if versionFull {
				if version.GitCommit != "" {
					fmt.Printf("commit: %s\n", version.GitCommit)
				}
				if version.BuildDate != "" {
					fmt.Printf("built:  %s\n", version.BuildDate)
				}
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q (want pretty or json)", versionFormat)
		}
	},
}
