// Package config provides configuration management for the Media Manager.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (through godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, principal bound to the key)
//   - Database: MySQL or SQLite connection details for the record store
//   - Storage: S3/MinIO credentials, bucket and public URL for asset blobs
//   - Upload: per-batch limits (file size, file count, allowed content types, timeout)
//   - Compensation: fan-out width of best-effort blob cleanup
//   - Log: Logging level and format
//
// Defaults live next to each field in a `default:"..."` struct tag.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Upload.MaxFiles)
package config
