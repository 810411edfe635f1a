package config

import "sort"

// Presets are ready-made run configurations, keyed by name.
var Presets = map[string]*Config{
	"epi": {
		ParamSet: "epi", Integrator: "euler", Dt: 0.01, Duration: 500.0,
		Stimuli: []StimConfig{{Start: 0.1, Duration: 0.2, Amplitude: 5.0}},
	},
	"endo": {
		ParamSet: "endo", Integrator: "euler", Dt: 0.01, Duration: 500.0,
		Stimuli: []StimConfig{{Start: 0.1, Duration: 0.2, Amplitude: 5.0}},
	},
	"mid": {
		ParamSet: "mid", Integrator: "euler", Dt: 0.01, Duration: 600.0,
		Stimuli: []StimConfig{{Start: 0.1, Duration: 0.2, Amplitude: 5.0}},
	},
	"quiescent": {
		ParamSet: "epi", Integrator: "euler", Dt: 0.01, Duration: 100.0,
	},
	"paced": {
		ParamSet: "epi", Integrator: "euler", Dt: 0.01, Duration: 2000.0,
		Stimuli: []StimConfig{{Start: 50, Period: 600, Count: 3, Duration: 0.2, Amplitude: 5.0}},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
