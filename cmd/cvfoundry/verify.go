package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/cvfoundry/internal/dataset"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [split-dir...]",
	Short: "Check image/label pairing and label format",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{
				filepath.Join(cfg.OutputDir, "train"),
				filepath.Join(cfg.OutputDir, "val"),
			}
		}

		bad := 0
		for _, dir := range args {
			pairs, problems, err := dataset.VerifySplit(dir, len(cfg.Classes))
			if err != nil {
				return err
			}
			for _, p := range problems {
				fmt.Printf("[!] %s: %s\n", dir, p)
			}
			fmt.Printf("[*] %s: %d пар, проблем: %d\n", dir, pairs, len(problems))
			bad += len(problems)
		}

		if bad > 0 {
			return fmt.Errorf("найдено проблем: %d", bad)
		}
		fmt.Println("[+++] Датасет корректен")
		return nil
	},
}
