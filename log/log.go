// Package log sets up the process-wide zap logger: console output, an
// optional rotating file sink, and a periodic queue-depth metrics line.
// Grounded on cmd/edge/main.go's zapLogger/makeRotator/setZap (there
// marked "TODO: move to log package" — this package is that move) plus
// log/metrics.go's MetricsLogTaskImpl for the periodic queue-depth record.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	rotate "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oqtopus-team/cliffordt-optimizer/common"
	"github.com/oqtopus-team/cliffordt-optimizer/core"
)

// Setup builds the process logger from conf, replaces zap's globals with
// it, and returns it so the caller can Sync before exit.
func Setup(conf *core.Conf) (*zap.Logger, error) {
	logger, err := buildLogger(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("starting logger")
	zap.L().Info(fmt.Sprintf("dev mode is %t", conf.DevMode))
	zap.L().Info(fmt.Sprintf("log rotation max days is %d", conf.LogRotationMaxDays))
	return logger, nil
}

func buildLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}

	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var cores []zapcore.Core
	if conf.EnableFileLog {
		rotator, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}
	if !conf.DisableStdoutLog {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	if err := common.IsDirWritable(dirPath); err != nil {
		return nil, err
	}
	return rotate.New(
		filepath.Join(dirPath, "cliffordt-optimizer-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
}

// StartQueueMetrics logs the pipeline's current queue depth to zap every
// interval, until stop is closed. Grounded on MetricsLogTaskImpl.Task, with
// the file-based slog/dailyLogger sink replaced by a zap field on the
// process logger already set up by Setup — a second independent log sink
// for the same process has no caller here.
func StartQueueMetrics(sc *core.SystemComponents, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				zap.L().Info("metrics", zap.Int("queue_length", sc.GetCurrentQueueSize()))
			}
		}
	}()
}
