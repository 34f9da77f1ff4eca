package upload

import "time"

// Config holds the limits applied to every upload batch.
type Config struct {
	// MaxFileBytes is the size ceiling of a single file.
	MaxFileBytes int64 `mapstructure:"max_file_bytes" default:"5242880"`
	// MaxFiles is the maximum number of files in one batch.
	MaxFiles int `mapstructure:"max_files" default:"10"`
	// AllowedTypes is the set of accepted content types.
	AllowedTypes []string `mapstructure:"allowed_types" default:"image/jpeg,image/jpg,image/png,image/webp,image/gif"`
	// TimeoutSeconds bounds each individual upload.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the per-item upload bound.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
