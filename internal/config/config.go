package config

// Config holds CLI configuration, populated from flags, environment
// variables and an optional config file via viper.
type Config struct {
	InputFile string `mapstructure:"input"`
	OutputDir string `mapstructure:"output"`

	// HashesDir points at a directory of hash tables (hashes.game.txt,
	// hashes.lcu.txt, ...) used to resolve chunk names.
	HashesDir string `mapstructure:"hashes"`

	Replace           bool `mapstructure:"replace"`
	DecompressWorkers int  `mapstructure:"decompress_workers"`
	WriteSlots        int  `mapstructure:"write_slots"`

	LogLevel     string `mapstructure:"log_level"`
	LogOutputDir string `mapstructure:"log_output_dir"`
}
