package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// LogError records err with enough context to locate the failing operation.
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, err error) {
	logger.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}).Error(err.Error())
}
