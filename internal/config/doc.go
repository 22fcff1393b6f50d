// Package config handles configuration loading for rag-gateway.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// The serve command resolves the config path in order:
//
//  1. The --config flag
//  2. Path from RAG_CONFIG environment variable
//  3. ./config.yaml (current directory)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${RAG_DB_PATH}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	server:
//	  shutdown_timeout: "10s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  shutdown_timeout: "10s"
//
// Database:
//
//	database:
//	  path: "/var/lib/rag-gateway/rag.db"
//
// App identity (for app-wide settings lookup; falls back to RAG_APP_ID):
//
//	app:
//	  id: "rag-gateway"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Audit:
//
//	audit:
//	  enabled: true
//
// # Usage
//
// Load configuration from a path:
//
//	cfg, err := config.Load("/etc/rag-gateway/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
