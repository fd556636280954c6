package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// logger selalu siap walau InitLogger belum dipanggil (mis. di test)
	InitLogger()
}

// InitLogger (re)creates both loggers. LOG_FORMAT=json switches to the JSON
// formatter, LOG_LEVEL=debug lowers the info logger level.
func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	ErrorLogger.SetOutput(os.Stderr)

	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		formatter = &logrus.JSONFormatter{}
	}
	InfoLogger.SetFormatter(formatter)
	ErrorLogger.SetFormatter(formatter)

	InfoLogger.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl > logrus.InfoLevel {
		InfoLogger.SetLevel(lvl)
	}
	// ErrorLogger dipakai lewat Printf (level info), jadi jangan dinaikkan
	ErrorLogger.SetLevel(logrus.InfoLevel)
}
