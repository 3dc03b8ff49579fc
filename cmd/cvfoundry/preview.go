package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview <split-dir> <output-dir>",
	Short: "Draw label boxes over generated frames",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		table, err := classes.NewTable(cfg.Classes)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		n, err := preview.Split(args[0], args[1], table, limit)
		if err != nil {
			return err
		}
		fmt.Printf("[+++] Превью: %d -> %s\n", n, args[1])
		return nil
	},
}

func init() {
	previewCmd.Flags().Int("limit", 20, "Сколько кадров отрисовать (0 - все)")
}
