package logger

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal    = "local"
	envDev      = "dev"
	envProd     = "prod"
	logFileName = "regbot.log"
)

// SetupLogger logs to stdout for local runs and to a file in logPath otherwise.
func SetupLogger(env, logPath string) *slog.Logger {
	var logger *slog.Logger
	var logFile *os.File
	var err error

	if env != envLocal {
		fileName := filepath.Join(logPath, logFileName)
		logFile, err = os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("error opening log file: ", err)
		}
		log.Printf("env: %s; log file: %s", env, fileName)
	}

	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		logger = slog.New(
			slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		logger = slog.New(
			slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log.Fatal("invalid environment: ", env)
	}

	return logger
}

// WithTelegram returns a logger that also forwards records at minLevel and above to the notifiers.
func WithTelegram(logger *slog.Logger, minLevel slog.Level, notifiers ...Notifier) *slog.Logger {
	handler := logger.Handler()
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		handler = NewTelegramHandler(handler, n, minLevel)
	}
	return slog.New(handler)
}
