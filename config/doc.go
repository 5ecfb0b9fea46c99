// Package config loads apiwatch configuration with Viper.
//
// LoadConfig reads a YAML file found in the standard locations (or given
// explicitly), loads a .env file through godotenv, overlays prefixed
// environment variables and unmarshals the result:
//
//	var cfg config.AppConfig
//	if err := config.LoadConfig("apiwatch", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// APIWATCH_LOGGING_LEVEL=debug overrides logging.level, and
// APIWATCH_HTTP_TIMEOUT=5s overrides http.timeout.
package config
