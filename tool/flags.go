package tool

import "flag"

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log           string
	UseConfigPath string
	UseMediaRoot  string
	UseThumbRoot  string
	UseWebOutPath string
	UsePort       int
}

// SetFlags parses CLI flags and returns the override config.
func SetFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseMediaRoot, "useMediaRoot", "", "override media root directory")
	flag.StringVar(&cfg.UseThumbRoot, "useThumbRoot", "", "override thumbnail cache directory")
	flag.StringVar(&cfg.UseWebOutPath, "useWebOutPath", "", "override static frontend directory")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override listen port")
	flag.Parse()
	return cfg
}
