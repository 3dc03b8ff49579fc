package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ivlev/cvfoundry/internal/config"
	"github.com/ivlev/cvfoundry/internal/system"
)

const defaultBlueprint = "blueprints/dino_game.yaml"

var rootCmd = &cobra.Command{
	Use:           "cvfoundry",
	Short:         "Synthetic object-detection datasets from sprite assets",
	Long:          `cvfoundry cuts sprites out of their backgrounds, scatters them over blank canvases and writes YOLO-style image/label pairs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetFlags(0)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	bindGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(synthesizeCmd, filterCmd, previewCmd, verifyCmd)
}

func bindGlobalFlags(pf *pflag.FlagSet) {
	pf.StringP("blueprint", "b", defaultBlueprint, "YAML-блюпринт (классы, ассеты, параметры синтеза)")
	pf.String("assets", "", "Папка с ассетами (перекрывает assets_dir)")
	pf.StringP("output", "o", "", "Корень датасета (перекрывает output_dir)")
	pf.IntP("workers", "w", 0, "Потоки (0 - по числу физических ядер)")
	pf.Int64("seed", 0, "Seed генератора (0 - от текущего времени)")
	pf.Bool("stats", false, "Показать статистику производительности")
}

// loadConfig builds the run configuration: defaults, then the blueprint file, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("blueprint")

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
		fmt.Printf("[*] Блюпринт: %s\n", path)
	} else if cmd.Flags().Changed("blueprint") {
		return nil, fmt.Errorf("blueprint %s: %w", path, err)
	} else {
		log.Printf("[!] %s не найден, используются настройки по умолчанию", path)
	}

	flags := cmd.Flags()
	if flags.Changed("assets") {
		cfg.AssetsDir, _ = flags.GetString("assets")
	}
	if flags.Changed("output") {
		cfg.OutputDir, _ = flags.GetString("output")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("stats") {
		cfg.ShowStats, _ = flags.GetBool("stats")
	}
	if cfg.Workers == 0 {
		cfg.Workers = system.DefaultWorkers()
	}

	return cfg, nil
}
