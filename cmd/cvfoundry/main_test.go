package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	bindGlobalFlags(cmd.Flags())
	if err := cmd.Flags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigOverrides(t *testing.T) {
	bp := filepath.Join(t.TempDir(), "bp.yaml")
	os.WriteFile(bp, []byte("output_dir: from-yaml\nworkers: 2\nclasses: [a, b, c]\n"), 0644)

	tests := []struct {
		name       string
		args       []string
		wantOutput string
		wantWork   int
		wantSeed   int64
	}{
		{"blueprint only", []string{"--blueprint", bp}, "from-yaml", 2, 0},
		{"flags win", []string{"--blueprint", bp, "-o", "from-flag", "-w", "4", "--seed", "7"}, "from-flag", 4, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(newTestCmd(t, tt.args...))
			if err != nil {
				t.Fatalf("loadConfig: %v", err)
			}
			if cfg.OutputDir != tt.wantOutput || cfg.Workers != tt.wantWork || cfg.Seed != tt.wantSeed {
				t.Errorf("got output=%q workers=%d seed=%d", cfg.OutputDir, cfg.Workers, cfg.Seed)
			}
			if len(cfg.Classes) != 3 {
				t.Errorf("classes from blueprint lost: %v", cfg.Classes)
			}
		})
	}
}

func TestLoadConfigMissingBlueprint(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := loadConfig(newTestCmd(t, "--blueprint", missing)); err == nil {
		t.Error("explicit missing blueprint must fail")
	}
}
