package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - логгер на весь процесс. Пригоден и до Init (уровень info, текст в stderr),
// так что библиотечный код и тесты никогда не получат nil.
var Log = logrus.New()

// Init настраивает Log из окружения. Вызывать один раз из main.
//
//	LOG_LEVEL  - имя уровня logrus, по умолчанию "info"
//	LOG_FORMAT - "json" для сборщиков логов, иначе цветной текст
func Init() {
	Configure(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure применяет уровень/формат к Log и перенаправляет его в out.
func Configure(out io.Writer, levelName, format string) {
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// For возвращает запись, помеченную именем компонента.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
