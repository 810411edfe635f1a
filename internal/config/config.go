// Package config loads and saves YAML run configurations and maps them
// onto the model, stimulus and driver settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finitewave/bocf/internal/cell"
	"github.com/finitewave/bocf/internal/model"
	"github.com/finitewave/bocf/internal/stim"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 500.0
	DefaultParamSet = "epi"
)

type Config struct {
	ParamSet   string             `yaml:"param_set"`
	Params     map[string]float64 `yaml:"params"` // per-parameter overrides
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Steps      int                `yaml:"steps"`
	InitState  *InitStateConfig   `yaml:"init_state"`
	Stimuli    []StimConfig       `yaml:"stimuli"`
}

type InitStateConfig struct {
	U float64 `yaml:"u"`
	V float64 `yaml:"v"`
	W float64 `yaml:"w"`
	S float64 `yaml:"s"`
}

// StimConfig describes one pulse, or a pacing train when count > 1.
type StimConfig struct {
	Start     float64 `yaml:"start"`
	Duration  float64 `yaml:"duration"`
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
	Count     int     `yaml:"count"`
}

func DefaultConfig() *Config {
	return &Config{
		ParamSet:   DefaultParamSet,
		Integrator: "euler",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Stimuli: []StimConfig{
			{Start: 0.1, Duration: 0.2, Amplitude: 5.0},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildModel resolves the named parameter set, applies overrides, and
// constructs the validated model.
func (c *Config) BuildModel() (*model.Model, error) {
	p, err := model.ParamSet(c.ParamSet)
	if err != nil {
		return nil, err
	}
	for name, val := range c.Params {
		if err := p.Set(name, val); err != nil {
			return nil, fmt.Errorf("applying override: %w", err)
		}
	}
	return model.New(p)
}

// BuildProtocol assembles the configured stimuli into one protocol.
func (c *Config) BuildProtocol() cell.Protocol {
	if len(c.Stimuli) == 0 {
		return stim.None{}
	}
	multi := make(stim.Multi, 0, len(c.Stimuli))
	for _, sc := range c.Stimuli {
		if sc.Count > 1 {
			multi = append(multi, stim.Train{
				Start:     sc.Start,
				Period:    sc.Period,
				Count:     sc.Count,
				Duration:  sc.Duration,
				Amplitude: sc.Amplitude,
			})
		} else {
			multi = append(multi, stim.Pulse{
				Start:     sc.Start,
				Duration:  sc.Duration,
				Amplitude: sc.Amplitude,
			})
		}
	}
	if len(multi) == 1 {
		return multi[0]
	}
	return multi
}

// GetInitState returns the configured initial state, defaulting to the
// model's resting state.
func (c *Config) GetInitState() cell.State {
	if c.InitState == nil {
		return model.RestingState()
	}
	return cell.State{c.InitState.U, c.InitState.V, c.InitState.W, c.InitState.S}
}

// RunConfig maps the file settings onto the driver config.
func (c *Config) RunConfig() cell.Config {
	return cell.Config{
		Dt:       c.Dt,
		Duration: c.Duration,
		Steps:    c.Steps,
	}
}
