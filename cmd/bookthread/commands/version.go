// ABOUTME: Version command reporting how this bookthread binary was built
// ABOUTME: Falls back to the Go module build info when no release stamp was linked in
package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	build = buildStamp{Version: "dev", Commit: "none", Date: "unknown"}

	versionShort bool
)

// buildStamp is the release stamp set through -ldflags in main
type buildStamp struct {
	Version string
	Commit  string
	Date    string
}

// SetVersion records the release stamp linked into main
func SetVersion(version, commit, date string) {
	build = buildStamp{Version: version, Commit: commit, Date: date}
}

// resolved fills unstamped fields from the VCS info go build embeds
func (b buildStamp) resolved(info *debug.BuildInfo, ok bool) buildStamp {
	if !ok || info == nil {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && b.Commit == "none":
			b.Commit = s.Value
		case s.Key == "vcs.time" && b.Date == "unknown":
			b.Date = s.Value
		}
	}
	return b
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the release, commit, build date, and Go toolchain of this binary.

Examples:
  bookthread version
  bookthread version --short   # just the release`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			b := build.resolved(debug.ReadBuildInfo())
			out := cmd.OutOrStdout()
			if versionShort {
				fmt.Fprintln(out, b.Version)
				return
			}
			fmt.Fprintf(out, "bookthread %s\n", b.Version)
			fmt.Fprintf(out, "Commit:     %s\n", b.Commit)
			fmt.Fprintf(out, "Built:      %s\n", b.Date)
			fmt.Fprintf(out, "Toolchain:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&versionShort, "short", false, "Print only the release version")

	return cmd
}
