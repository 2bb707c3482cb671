// Package config provides configuration structures and utilities for the
// status-report ingestion tool. It defines the main options for document
// ingestion, database placement, transcript parsing, and run-summary
// output preferences.
package config
