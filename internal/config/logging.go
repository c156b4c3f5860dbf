package config

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level     string
	Format    string
	File      string
	FileMaxMB int
}

func loadLogging() LoggingConfig {
	return LoggingConfig{
		Level:     envOrDefault(envLogLevel, defaultLogLevel),
		Format:    envOrDefault(envLogFormat, defaultLogFormat),
		File:      envOrDefault(envLogFile, ""),
		FileMaxMB: intEnvOrDefault(envLogFileMaxMB, defaultLogFileMaxMB),
	}
}
