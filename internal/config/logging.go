package config

import "github.com/rshade/tempscore/internal/logging"

// ToLoggingConfig converts the configuration section into a logging.Config.
// A configured file switches output to that file; "text" is accepted as a
// synonym for console output.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}
	format := lc.Format
	if format == "text" {
		format = logging.FormatConsole
	}

	return logging.Config{
		Level:  lc.Level,
		Format: format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global Logging section.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
