// Package main provides the entry point for the sosdash CLI.
//
// sosdash ingests recurring "Scrum of Scrums" status-report documents,
// normalizes them into structured records, and loads them into a local
// SQLite database for the dashboard to serve.
//
// Usage:
//
//	sosdash ingest <directory>
//	sosdash inspect <file>
//	sosdash transcript <file>
//
// See --help for all available options.
package main

// main is the entry point for sosdash.
func main() {
	Execute()
}
