// Package logger provides structured logging for apiwatch using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("apiwatch").WithComponent("fetch")
//	log.Info("state changed", logger.Fields("endpoint", url, "generation", 3))
package logger
