package device

import (
	"encoding/json"

	"linaxis/core"
)

// Config describes one axis device: pin wiring, geometry and timing.
type Config struct {
	StepPin    uint32 `json:"step_pin"`
	DirPin     uint32 `json:"dir_pin"`
	EnablePin  uint32 `json:"enable_pin"`
	ContactPin uint32 `json:"contact_pin"`

	// ContactTriggerHigh selects the pin level that means "in contact".
	// Default false: normally-open switch to ground behind a pull-up.
	ContactTriggerHigh bool `json:"contact_trigger_high"`

	InvertEnable bool `json:"invert_enable"`

	ResolutionMm    float64 `json:"resolution_mm"`
	StepDelayMicros uint32  `json:"step_delay_micros"`
	SettleMicros    uint32  `json:"settle_micros"`
	StepsPerJog     int     `json:"steps_per_jog"`
	MaxTravelMm     float64 `json:"max_travel_mm"`

	// Delay overrides the dwell primitive, for simulation and tests.
	Delay core.DelayFunc `json:"-"`
}

// LoadConfig parses a JSON configuration and fills in defaults.
func LoadConfig(jsonData []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// DefaultConfig returns the stock single-axis wiring.
func DefaultConfig() *Config {
	cfg := &Config{
		StepPin:    2,
		DirPin:     3,
		EnablePin:  4,
		ContactPin: 5,
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing configuration values with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.ResolutionMm == 0 {
		cfg.ResolutionMm = 0.0025 // 2mm lead, 200 steps/rev, 4 microsteps
	}
	if cfg.StepDelayMicros == 0 {
		cfg.StepDelayMicros = 500
	}
	if cfg.SettleMicros == 0 {
		cfg.SettleMicros = 50000
	}
	if cfg.StepsPerJog == 0 {
		cfg.StepsPerJog = 400
	}
	if cfg.MaxTravelMm == 0 {
		cfg.MaxTravelMm = 60.0
	}
}
