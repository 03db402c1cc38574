// Package config loads application configuration.
//
// Values come from the environment, optionally seeded from a .env file. Every
// field's default lives in its `default` struct tag and is registered with viper
// by reflection, so each key can be overridden by the matching upper-case
// variable (sheet.layout.header_rows -> SHEET_LAYOUT_HEADER_ROWS).
//
// Sections:
//   - Server: port, API key, refresh schedule
//   - Log: level and format
//   - Database: connection for the db sheet backend
//   - Storage: S3/MinIO settings for the object sheet backend
//   - Sheet: backend, period label and column layout
//   - Calendar: ICS feed URLs, timezone and fetch limits
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = cfg.Validate()
package config
