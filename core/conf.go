package core

// Conf holds the process-wide configuration, populated from CLI flags
// (go-flags' `long` tags), environment variables (`env` tags, loaded via
// envordot/massn before flag parsing), and defaulted where neither is set.
type Conf struct {
	Version            string `long:"version" description:"version reported in logs and output metadata" env:"CTOPT_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode (pretty console logging)" env:"CTOPT_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log to standard output" env:"CTOPT_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable rotating file logging" env:"CTOPT_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file directory" default:"./shares/logs" env:"CTOPT_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"CTOPT_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"CTOPT_LOG_ROTATION_MAX_DAYS"`

	QueueMaxSize         int `long:"queue-max-size" description:"section queue max size" default:"100" env:"CTOPT_QUEUE_MAX_SIZE"`
	QueueRefillThreshold int `long:"queue-refill-threshold" description:"section queue refill threshold" default:"10" env:"CTOPT_QUEUE_REFILL_THRESHOLD"`
	WorkerPoolSize       int `long:"worker-pool-size" description:"number of concurrent section-optimization workers" default:"4" env:"CTOPT_WORKER_POOL_SIZE"`

	TimeBudgetSeconds int `long:"time-budget-seconds" description:"cooperative per-circuit optimization time budget; 0 disables the limit" default:"0" env:"CTOPT_TIME_BUDGET_SECONDS"`

	AbsorbIntoMeasurements bool `long:"absorb" description:"absorb the trailing Clifford/Pauli tail into the trailing measurements" default:"true" env:"CTOPT_ABSORB"`
	EmitLayers             bool `long:"layers" description:"also emit the final operation sequence's layer partitioning" env:"CTOPT_EMIT_LAYERS"`

	SettingPath string `long:"setting-path" description:"toml setting file path" default:"./setting/setting.toml" env:"CTOPT_SETTING_PATH"`

	MetricsIntervalSeconds int `long:"metrics-interval-seconds" description:"queue-depth metrics log interval; 0 disables periodic metrics logging" default:"30" env:"CTOPT_METRICS_INTERVAL_SECONDS"`
}
