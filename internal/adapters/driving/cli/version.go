package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

var versionJSON bool

// versionInfo is the machine-readable form of `scholarstr version`.
type versionInfo struct {
	Version string   `json:"version"`
	Go      string   `json:"go"`
	Kinds   []int    `json:"kinds"`
	Relays  []string `json:"relays,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versionInfo{
			Version: version,
			Go:      runtime.Version(),
			Kinds:   []int{domain.KindLongForm, domain.KindZapReceipt, domain.KindComment},
		}
		if relaySelector != nil {
			info.Relays = relaySelector.Relays()
		}
		if versionJSON {
			return printJSON(cmd, info)
		}

		cmd.Printf("scholarstr version %s\n", info.Version)
		if verbose {
			cmd.Printf("  go:     %s\n", info.Go)
			cmd.Printf("  kinds:  paper %d, zap receipt %d, comment %d\n",
				domain.KindLongForm, domain.KindZapReceipt, domain.KindComment)
			if len(info.Relays) > 0 {
				cmd.Printf("  relays: %s\n", strings.Join(info.Relays, ", "))
			}
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(versionCmd)
}
