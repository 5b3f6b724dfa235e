package config

var Presets = map[string]*Config{
	"cluster": {
		Bodies: 30, Steps: 2000, Dt: 0.01, G: 6.67, Softening: 0.1,
		Boundary: 400, BoundaryMode: "bounce", MaxTrailLength: 50, Backend: "auto",
	},
	"binary": {
		Bodies: 2, Steps: 5000, Dt: 0.005, G: 6.67, Softening: 0.1,
		Boundary: 200, BoundaryMode: "open", MaxTrailLength: 200, Backend: "auto",
	},
	"dense": {
		Bodies: 100, Steps: 1000, Dt: 0.005, G: 6.67, Softening: 0.2,
		Boundary: 400, BoundaryMode: "bounce", MaxTrailLength: 25, Backend: "auto",
	},
	"torus": {
		Bodies: 20, Steps: 2000, Dt: 0.01, G: 6.67, Softening: 0.1,
		Boundary: 200, BoundaryMode: "periodic", MaxTrailLength: 50, Backend: "auto",
	},
	"sparse": {
		Bodies: 5, Steps: 3000, Dt: 0.01, G: 6.67, Softening: 0.1,
		Boundary: 200, BoundaryMode: "open", MaxTrailLength: 100, Backend: "auto",
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
