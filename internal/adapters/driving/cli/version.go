package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version and build information",
	Annotations: map[string]string{annotationNoServices: "true"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := currentBuild()
		return render(cmd, info, func(w io.Writer) {
			fmt.Fprintf(w, "docrag version %s\n", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(w, "  commit: %s\n", info.Commit)
			}
			fmt.Fprintf(w, "  go: %s %s/%s\n", info.GoVersion, info.OS, info.Arch)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what `docrag version` reports.
type buildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	GoVersion string `json:"go" yaml:"go"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

func currentBuild() buildInfo {
	info := buildInfo{
		Version:   version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			info.Commit = s.Value
			if len(info.Commit) > 12 {
				info.Commit = info.Commit[:12]
			}
		}
	}
	return info
}
