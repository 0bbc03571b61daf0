package main

import (
	"fmt"
	"os"

	"hydration_monitor/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:          "hydration-monitor",
		Short:        "Smart bottle event and reminder engine",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default configs/config.yml if present)")

	root.AddCommand(newServeCmd(v), newSimulateCmd(v))
	return root
}

// loadConfig reads the --config file or the default one, then environment
// overrides, and validates the result.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := config.ReadFile(v); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}
