package logger

import (
	"github.com/sirupsen/logrus"
	"go.elastic.co/ecslogrus"
	"os"
)

// LogLevelEnv Env variable overriding the default "info" level
const LogLevelEnv = "LOG_LEVEL"

// Build a new ECS formatted logger instance
func Build() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&ecslogrus.Formatter{})
	log.SetLevel(levelFromEnv())
	return log
}

func levelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(os.Getenv(LogLevelEnv))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
