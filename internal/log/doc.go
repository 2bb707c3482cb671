// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// The transcript parsing path sends text to an external LLM provider
// and carries an API key in its configuration. The SecureHandler masks
// credential-bearing attributes (api_key, authorization, tokens) before
// they reach the underlying handler, so a key can never leak into logs
// even in verbose mode.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	logger.Info("provider configured",
//	    "api_key", cfg.APIKey,  // Will be masked
//	    "model", cfg.Model,
//	)
//
//	slog.SetDefault(logger)
package log
