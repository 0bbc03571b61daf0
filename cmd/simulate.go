package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/simulate"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yml>",
		Short: "Replay a scenario in simulated time and print the events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return runSimulation(cmd.OutOrStdout(), cfg, f, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON record per line")
	return cmd
}

func runSimulation(w io.Writer, cfg config.Config, r io.Reader, asJSON bool) error {
	sc, err := simulate.Load(r)
	if err != nil {
		return err
	}
	res, err := simulate.Run(cfg, sc)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		for _, rec := range res.Events {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	}

	for _, rec := range res.Events {
		fmt.Fprintf(w, "%s  %-20s  sev=%-3d  %s\n",
			rec.Timestamp.Format(time.RFC3339), rec.Kind, rec.Severity, rec.Source)
	}
	fmt.Fprintf(w, "events=%d rejected=%d deferred=%d drink_level_g=%.0f daily_consumed_ml=%.0f\n",
		len(res.Events), res.Rejected, res.Deferred, res.Final.DrinkLevelG, res.Final.DailyConsumedML)
	return nil
}
