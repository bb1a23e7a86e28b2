// Package logging constructs the slog loggers used across boxart.
//
// Two output formats are supported: a human-oriented console format
// (timestamp, level, component prefix, message, key=value attributes) and
// line-delimited JSON for machine consumption. Component loggers carry a
// standardized "component" attribute that the console handler folds into the
// message prefix.
package logging
