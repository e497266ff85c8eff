// Package logger provides structured logging utilities.
//
// Features leveled logging, structured fields, and multiple output formats.
//
// Basic usage:
//
//	log, err := logger.New(nil) // nil uses DefaultConfig
//	log.Info("message", "key", "value")
//	log.Error("error occurred", "error", err)
//
// With configuration:
//
//	log, err := logger.New(&logger.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
package logger
