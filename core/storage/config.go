package storage

// Config holds configuration for the storage provider.
type Config struct {
	// Driver selects the asset store backend (minio, memory).
	Driver string `mapstructure:"driver" default:"minio"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket to store assets in.
	Bucket string `mapstructure:"bucket" default:"assets"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PublicURL is the base under which stored objects are publicly resolvable.
	// When empty it is derived from Endpoint, UseSSL and Bucket.
	PublicURL string `mapstructure:"public_url" default:""`
}

// BaseURL returns the public URL prefix of the bucket, without a trailing slash.
func (c Config) BaseURL() string {
	if c.PublicURL != "" {
		return trimSlash(c.PublicURL)
	}
	scheme := "http://"
	if c.UseSSL {
		scheme = "https://"
	}
	return scheme + trimSlash(stripScheme(c.Endpoint)) + "/" + c.Bucket
}
