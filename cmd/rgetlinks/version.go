package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at release build time via ldflags. When empty, the build
// info the Go toolchain embeds into the binary is used instead.
var version = ""

// buildVersion resolves the version string reported by --version and the
// version subcommand. Module builds get the module version; VCS builds get
// the short revision appended, with a marker for uncommitted changes.
func buildVersion() string {
	if version != "" {
		return version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}

	v := info.Main.Version
	if v == "" {
		v = "(devel)"
	}

	var revision, dirty string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			if setting.Value == "true" {
				dirty = "+dirty"
			}
		}
	}

	if revision != "" {
		return v + " (" + revision + dirty + ")"
	}
	return v
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version of rgetlinks.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rgetlinks version %s\n", buildVersion())
		},
	}
}
