// Package config loads the engine's yaml configuration and converts its
// sections into the per-package tuning structs.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-hypercube/internal/chroma"
	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

type InteractionCfg struct {
	ScrollNorm    float64 `yaml:"scroll_norm"`
	ScrollVelNorm float64 `yaml:"scroll_vel_norm"`
	MoveNorm      float64 `yaml:"move_norm"`
	MoveVelNorm   float64 `yaml:"move_vel_norm"`

	ScrollDecayMs      int `yaml:"scroll_decay_ms"`
	MoveDecayMs        int `yaml:"move_decay_ms"`
	HoldThresholdMs    int `yaml:"hold_threshold_ms"`
	MultiClickWindowMs int `yaml:"multi_click_window_ms"`
	ReleaseDecayMs     int `yaml:"release_decay_ms"`

	HoldRampSec     float64 `yaml:"hold_ramp_sec"`
	IdleTimeoutSec  float64 `yaml:"idle_timeout_sec"`
	IdleHalfLifeSec float64 `yaml:"idle_half_life_sec"`
}

type ModulationCfg struct {
	Morph    float64 `yaml:"morph"`
	Rotation float64 `yaml:"rotation"`
	Grid     float64 `yaml:"grid"`
	Glitch   float64 `yaml:"glitch"`
	Pattern  float64 `yaml:"pattern"`
}

type ProjectionCfg struct {
	DistanceStrength float64 `yaml:"distance_strength"`
	PoleStrength     float64 `yaml:"pole_strength"`
	Epsilon          float64 `yaml:"epsilon"`
	OutputClamp      float64 `yaml:"output_clamp"`
}

type ChromaCfg struct {
	HueDriftDegPerSec float64 `yaml:"hue_drift_deg_per_sec"`
	SatPulse          float64 `yaml:"sat_pulse"`
	LumWaveAmp        float64 `yaml:"lum_wave_amp"`
	LumWaveHz         float64 `yaml:"lum_wave_hz"`
}

type Config struct {
	FPS       int    `yaml:"fps"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	WSAddr    string `yaml:"ws_addr"` // empty disables the state broadcaster
	PresetDir string `yaml:"preset_dir"`
	Ease      string `yaml:"ease"` // linear | smooth | cubic

	Interaction InteractionCfg `yaml:"interaction"`
	Modulation  ModulationCfg  `yaml:"modulation"`
	Projection  ProjectionCfg  `yaml:"projection"`
	Chroma      ChromaCfg      `yaml:"chroma"`
}

// Default mirrors the per-package defaults so a missing file behaves the
// same as an empty one.
func Default() *Config {
	it := interaction.DefaultTuning()
	mod := param.DefaultModulation()
	pt := projection.DefaultTuning()
	ct := chroma.DefaultTuning()
	return &Config{
		FPS:       60,
		Width:     1280,
		Height:    800,
		PresetDir: "presets",
		Ease:      "linear",
		Interaction: InteractionCfg{
			ScrollNorm:         it.ScrollNorm,
			ScrollVelNorm:      it.ScrollVelNorm,
			MoveNorm:           it.MoveNorm,
			MoveVelNorm:        it.MoveVelNorm,
			ScrollDecayMs:      int(it.ScrollDecay / time.Millisecond),
			MoveDecayMs:        int(it.MoveDecay / time.Millisecond),
			HoldThresholdMs:    int(it.HoldThreshold / time.Millisecond),
			MultiClickWindowMs: int(it.MultiClickWindow / time.Millisecond),
			ReleaseDecayMs:     int(it.ReleaseDecay / time.Millisecond),
			HoldRampSec:        it.HoldRamp,
			IdleTimeoutSec:     it.IdleTimeout,
			IdleHalfLifeSec:    it.IdleHalfLife,
		},
		Modulation: ModulationCfg{
			Morph: mod.Morph, Rotation: mod.Rotation, Grid: mod.Grid,
			Glitch: mod.Glitch, Pattern: mod.Pattern,
		},
		Projection: ProjectionCfg{
			DistanceStrength: pt.DistanceStrength,
			PoleStrength:     pt.PoleStrength,
			Epsilon:          pt.Epsilon,
			OutputClamp:      pt.OutputClamp,
		},
		Chroma: ChromaCfg{
			HueDriftDegPerSec: ct.HueDriftDegPerSec,
			SatPulse:          ct.SatPulse,
			LumWaveAmp:        ct.LumWaveAmp,
			LumWaveHz:         ct.LumWaveHz,
		},
	}
}

// Load reads a yaml file over the defaults, so partial files only override
// what they mention.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// InteractionTuning converts the section into the engine's tuning struct.
func (c *Config) InteractionTuning() interaction.Tuning {
	i := c.Interaction
	return interaction.Tuning{
		ScrollNorm:       i.ScrollNorm,
		ScrollVelNorm:    i.ScrollVelNorm,
		MoveNorm:         i.MoveNorm,
		MoveVelNorm:      i.MoveVelNorm,
		ScrollDecay:      time.Duration(i.ScrollDecayMs) * time.Millisecond,
		MoveDecay:        time.Duration(i.MoveDecayMs) * time.Millisecond,
		HoldThreshold:    time.Duration(i.HoldThresholdMs) * time.Millisecond,
		MultiClickWindow: time.Duration(i.MultiClickWindowMs) * time.Millisecond,
		ReleaseDecay:     time.Duration(i.ReleaseDecayMs) * time.Millisecond,
		HoldRamp:         i.HoldRampSec,
		IdleTimeout:      i.IdleTimeoutSec,
		IdleHalfLife:     i.IdleHalfLifeSec,
	}
}

func (c *Config) ModulationStrengths() param.Modulation {
	m := c.Modulation
	return param.Modulation{Morph: m.Morph, Rotation: m.Rotation, Grid: m.Grid, Glitch: m.Glitch, Pattern: m.Pattern}
}

func (c *Config) ProjectionTuning() projection.Tuning {
	p := c.Projection
	return projection.Tuning{
		DistanceStrength: p.DistanceStrength,
		PoleStrength:     p.PoleStrength,
		Epsilon:          p.Epsilon,
		OutputClamp:      p.OutputClamp,
	}
}

func (c *Config) ChromaTuning() chroma.Tuning {
	ch := c.Chroma
	return chroma.Tuning{
		HueDriftDegPerSec: ch.HueDriftDegPerSec,
		SatPulse:          ch.SatPulse,
		LumWaveAmp:        ch.LumWaveAmp,
		LumWaveHz:         ch.LumWaveHz,
	}
}
