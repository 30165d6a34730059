// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and an optional rotating log file,
//   - convenience functions (InfoKV, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so a run of the
// installer logs under one name with its scoped fields.
package logger
