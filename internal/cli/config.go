package cli

import (
	"github.com/spf13/cobra"

	"github.com/sitekit-dev/sitekit/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after applying defaults, sitekit.yaml and
SITEKIT_* environment variables (for example SITEKIT_SERVER_PORT=9000).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadProject(cmd)
		if err != nil {
			return err
		}
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
