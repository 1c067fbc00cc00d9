package types

// AppConfig is the persisted application configuration (config.yaml).
type AppConfig struct {
	MediaRoot        string `yaml:"mediaRoot"`        // directory tree served to clients, read-only
	ThumbRoot        string `yaml:"thumbRoot"`        // durable thumbnail cache directory
	UsersFile        string `yaml:"usersFile"`        // user account store
	WebOut           string `yaml:"webOut"`           // static frontend build, served on NoRoute
	Port             int    `yaml:"port"`             //
	JWTSecret        string `yaml:"jwtSecret"`        // HS256 signing key, generated on first run
	TokenExpireHours int    `yaml:"tokenExpireHours"` //
	ThumbMaxSize     int    `yaml:"thumbMaxSize"`     // bounding box edge in pixels
	ThumbQuality     int    `yaml:"thumbQuality"`     // JPEG quality 1-100
	ChunkSizeBytes   int    `yaml:"chunkSizeBytes"`   // streaming read chunk
}
