package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/cvfoundry/internal/filter"
	"github.com/ivlev/cvfoundry/internal/source"
)

var filterCmd = &cobra.Command{
	Use:   "filter <input-dir> <output-dir>",
	Short: "Copy screenshots that differ from the previously kept one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		src, err := source.NewImageSource(args[0])
		if err != nil {
			return err
		}
		if src.Count() == 0 {
			return fmt.Errorf("в %s нет изображений", args[0])
		}

		fmt.Printf("[*] Фильтрация %d изображений (порог %.2f)...\n", src.Count(), threshold)
		res, err := filter.New(threshold).Run(src, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("[+++] Отобрано %d из %d (ошибок: %d) -> %s\n", res.Accepted, res.Processed, res.Failed, args[1])
		return nil
	},
}

func init() {
	filterCmd.Flags().Float64("threshold", filter.DefaultThreshold, "Порог средней разницы на пиксель")
}
