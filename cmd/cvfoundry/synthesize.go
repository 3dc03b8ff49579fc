package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/cvfoundry/internal/catalog"
	"github.com/ivlev/cvfoundry/internal/classes"
	"github.com/ivlev/cvfoundry/internal/composer"
	"github.com/ivlev/cvfoundry/internal/dataset"
	"github.com/ivlev/cvfoundry/internal/keyer"
	"github.com/ivlev/cvfoundry/internal/system"
)

var synthesizeCmd = &cobra.Command{
	Use:   "synthesize",
	Short: "Generate train/val splits and dataset.yaml",
	RunE:  runSynthesize,
}

func init() {
	f := synthesizeCmd.Flags()
	f.Int("train", 0, "Количество изображений train (перекрывает num_train_images)")
	f.Int("val", 0, "Количество изображений val (перекрывает num_val_images)")
	f.Int("max-objects", 0, "Максимум объектов на кадре")
	f.String("keyer", "", "Вырезание фона: corner, kmeans, dominant")
	f.String("force-class", "", "Класс, который обязательно присутствует на каждом кадре")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	system.InitResourceLimits()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("train") {
		cfg.Synthesis.NumTrain, _ = flags.GetInt("train")
	}
	if flags.Changed("val") {
		cfg.Synthesis.NumVal, _ = flags.GetInt("val")
	}
	if flags.Changed("max-objects") {
		cfg.Synthesis.MaxObjects, _ = flags.GetInt("max-objects")
	}
	if flags.Changed("keyer") {
		cfg.Keyer.Variant, _ = flags.GetString("keyer")
	}
	if flags.Changed("force-class") {
		cfg.Synthesis.ForceClass, _ = flags.GetString("force-class")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := classes.NewTable(cfg.Classes)
	if err != nil {
		return err
	}
	k, err := keyer.New(cfg.Keyer)
	if err != nil {
		return err
	}

	fmt.Printf("[*] Загрузка ассетов из '%s'...\n", cfg.AssetsDir)
	cat, err := catalog.Load(cfg.AssetsDir, table, k)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	for _, d := range cat.Diagnostics {
		log.Printf("[!] %s", d)
	}
	for _, id := range table.IDs() {
		fmt.Printf("[*] %d:%s - %d ассетов\n", id, table.Name(id), len(cat.Sprites(id)))
	}

	params, err := composer.NewParams(cfg.Synthesis, table)
	if err != nil {
		return err
	}
	gen := dataset.NewGenerator(cfg, cat, composer.New(params, cat))
	fmt.Printf("[*] Холст: %dx%d | Потоки: %d\n", cfg.Synthesis.Width, cfg.Synthesis.Height, cfg.Workers)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := gen.Run(ctx); err != nil {
		if errors.Is(err, dataset.ErrEmptyCatalog) {
			return fmt.Errorf("%w (%s)", err, cfg.AssetsDir)
		}
		return err
	}

	gen.Report.Print(os.Stdout, cfg.ShowStats)
	if cfg.ShowStats {
		if err := gen.Report.AppendLog(filepath.Join(cfg.OutputDir, "synthesis.log"), cfg.Blueprint); err != nil {
			log.Printf("[!] Не удалось записать synthesis.log: %v", err)
		}
	}

	fmt.Printf("[+++] Датасет готов: %s\n", cfg.OutputDir)
	return nil
}
