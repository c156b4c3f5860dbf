package config

import "time"

const (
	envPort         = "PORT"
	envDBDriver     = "DB_DRIVER"
	envConnString   = "CONNECTION_STRING"
	envSlowQuery    = "DB_SLOW_QUERY"
	envSeedData     = "SEED_DATA"
	envLogLevel     = "LOG_LEVEL"
	envLogFormat    = "LOG_FORMAT"
	envLogFile      = "LOG_FILE"
	envLogFileMaxMB = "LOG_FILE_MAX_MB"
	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort       = "5000"
	defaultDBDriver   = DriverSQLite
	defaultConnString = "file:gamestore.db?_pragma=foreign_keys(1)"
	// Queries slower than this are logged at warn level.
	defaultSlowQuery    = 200 * Duration(time.Millisecond)
	defaultSeedData     = true
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultLogFileMaxMB = 50
	defaultMetricsPort  = "9090"
	defaultServiceName  = "game-store-service"
)
