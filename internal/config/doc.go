// Package config provides centralized configuration management for the
// reconciliation engine. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern RECON_* for namespacing:
//
//	RECON_SERVER_PORT=8080
//	RECON_PATHS_REGISTERS_FILE=data/registers.xlsx
//	RECON_ANALYSIS_ANOMALY_THRESHOLD_PCT=50
//	RECON_LOGGING_LEVEL=info
//
// The profit share table is YAML-only (set RECON_CONFIG_FILE to point at
// the file):
//
//	shares:
//	  default:
//	    partner_a: 50
//	    partner_b: 50
//	  segments:
//	    DIRECT:
//	      partner_a: 67
//	      partner_b: 33
//
// Each split pair must sum to 100; Load fails fast on a table that does not.
package config
