package config

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version" validate:"eq=1"`
	Mode    Mode          `yaml:"mode" validate:"oneof=auto snapshot topology"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Link    LinkConfig    `yaml:"link"`
	Archive ArchiveConfig `yaml:"archive"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// InputConfig names the inventory report to convert
type InputConfig struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format" validate:"oneof=auto snapshot-xml topology-xml yaml"`
}

// OutputConfig controls where and how subnet files are written
type OutputConfig struct {
	Dir    string `yaml:"dir" validate:"required"`
	Format string `yaml:"format" validate:"oneof=netloc json yaml"`
	Prefix string `yaml:"prefix" validate:"required,excludesall=/"`
	Label  string `yaml:"label" validate:"required,excludesall=/"`
}

// LinkConfig holds per-link constants written to every directed link
type LinkConfig struct {
	Gbits int `yaml:"gbits" validate:"gt=0"`
}

// ArchiveConfig holds run archive settings. An empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path,omitempty"`
}

// MetricsConfig holds metrics export settings. An empty textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}
