package config

// Global configuration instance
var globalConfig *Config

// Initialize sets up the global configuration
func Initialize(cfg *Config) {
	if cfg == nil {
		cfg = Default()
	}
	globalConfig = cfg
}

// Get returns the current configuration
func Get() *Config {
	if globalConfig == nil {
		Initialize(nil)
	}
	return globalConfig
}

// Default returns the embedded defaults
func Default() *Config {
	cfg, err := LoadFromMap(nil)
	if err != nil {
		// The embedded file is part of the binary; failing to decode it is a build defect
		panic(err)
	}
	return cfg
}

// GetNaming returns the authoring conventions
func GetNaming() Naming {
	return Get().Naming
}

// GetLayers returns bone layer indices
func GetLayers() Layers {
	return Get().Layers
}

// GetFKIK returns the FK/IK vocabulary
func GetFKIK() FKIK {
	return Get().FKIK
}

// GetPhysics returns physics heuristics
func GetPhysics() Physics {
	return Get().Physics
}

// GetEngine returns scheduler settings
func GetEngine() Engine {
	return Get().Engine
}
