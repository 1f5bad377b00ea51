// Package config handles dsftile configuration loading.
package config

// Config holds all dsftile settings.
type Config struct {
	Tool    ToolConfig    `yaml:"tool"`
	Output  OutputConfig  `yaml:"output"`
	Curves  CurvesConfig  `yaml:"curves"`
	Logging LoggingConfig `yaml:"logging"`
}

// ToolConfig locates the external DSFTool executable.
type ToolConfig struct {
	DSFToolPath string `yaml:"dsftool_path"`
}

// OutputConfig holds output locations.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// CurvesConfig holds bezier subdivision settings.
type CurvesConfig struct {
	Resolution int `yaml:"resolution"` // segments per curved span
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tool: ToolConfig{
			DSFToolPath: "DSFTool",
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Curves: CurvesConfig{
			Resolution: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
