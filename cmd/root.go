// Package cmd is the CLI surface of the visualizer.
package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/neural-visualization/internal/config"
	"github.com/iburimskiy/neural-visualization/internal/engine"
	"github.com/iburimskiy/neural-visualization/internal/field"
	"github.com/iburimskiy/neural-visualization/internal/preset"
)

var version = "0.3.0"

var (
	brand  = color.New(color.FgCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	bad    = color.New(color.FgRed, color.Bold)
)

var (
	flagPreset string
	flagNodes  int
	flagMode   string
	flagConfig string
	flagAudio  string
	flagSeed   int64
)

var rootCmd = &cobra.Command{
	Use:     "neural-viz",
	Short:   "neural-viz — animated 3-D node field",
	Long:    brand.Sprint("neural-viz") + " — a decorative neural node visualization\n" + subtle.Sprint("Orbit camera, selectable motion presets, optional audio-reactive mode"),
	Version: version,
	RunE:    run,
}

func init() {
	rootCmd.SetVersionTemplate("neural-viz {{ .Version }}\n")
	flags := rootCmd.Flags()
	flags.StringVarP(&flagPreset, "preset", "p", config.DefaultPreset, "motion preset to start with")
	flags.IntVarP(&flagNodes, "nodes", "n", config.DefaultNodeCount, "number of nodes in the field")
	flags.StringVarP(&flagMode, "mode", "m", "helix", "generation mode: helix or shell")
	flags.StringVarP(&flagConfig, "config", "c", "", "TOML config file with overrides")
	flags.StringVarP(&flagAudio, "audio", "a", "", "audio track for audio-reactive mode (wav/mp3/flac)")
	flags.Int64Var(&flagSeed, "seed", 0, "field generation seed (0 = time-based)")

	rootCmd.AddCommand(presetsCmd())
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// CLI flags win over the config file when given explicitly.
	if cmd.Flags().Changed("preset") {
		cfg.Field.Preset = flagPreset
	}
	if cmd.Flags().Changed("nodes") {
		cfg.Field.Nodes = flagNodes
	}
	if cmd.Flags().Changed("mode") {
		cfg.Field.Mode = flagMode
	}
	if cmd.Flags().Changed("seed") {
		cfg.Field.Seed = flagSeed
	}

	if err := preset.Customize(cfg.Presets); err != nil {
		return err
	}

	mode, err := parseMode(cfg.Field.Mode)
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Options{
		Config:    cfg,
		Mode:      mode,
		Preset:    cfg.Field.Preset,
		AudioPath: flagAudio,
	})
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer eng.Close()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("neural-viz — " + cfg.Field.Preset)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(eng); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func parseMode(s string) (field.Mode, error) {
	switch s {
	case "helix":
		return field.ModeHelix, nil
	case "shell":
		return field.ModeShell, nil
	}
	return 0, fmt.Errorf("unknown generation mode %q (want helix or shell)", s)
}

// Execute runs the root command, printing the failure the way the rest of
// the CLI prints.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		bad.Printf("neural-viz: %v\n", err)
		return err
	}
	return nil
}
