// Package cli is the invoicer command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/pkg/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Invoices and expenses for independent instructors",
	Long: `Invoicer records billable sessions, issues numbered PDF invoices,
tracks expenses with receipt photos and emails invoices through Gmail.

Run "invoicer serve" for the web application.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "invoicer %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return rootCmd.Execute()
}

func Root() *cobra.Command {
	return rootCmd
}
