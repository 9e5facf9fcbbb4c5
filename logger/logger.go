package logger

import (
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

const timeFormat = "2006-01-02 15:04:05.000000 MST"

func SetLevel(l log.Level) {
	log.SetLevel(l)
}

func SetHandler(h log.Handler) {
	log.SetHandler(h)
}

// SetFormat switches the output handler, "json" selects the JSON handler and
// anything else falls back to plain text on stderr.
func SetFormat(format string) {
	switch format {
	case "json":
		SetHandler(json.New(os.Stderr))
	default:
		SetHandler(text.New(os.Stderr))
	}
}

func prefixed(str string, v []interface{}) (string, []interface{}) {
	return `[%s] ` + str, append([]interface{}{time.Now().Format(timeFormat)}, v...)
}

func Debugf(str string, v ...interface{}) {
	res, args := prefixed(str, v)
	log.Debugf(res, args...)
}

func Errorf(str string, v ...interface{}) {
	res, args := prefixed(str, v)
	log.Errorf(res, args...)
}

func Fatalf(str string, v ...interface{}) {
	res, args := prefixed(str, v)
	log.Fatalf(res, args...)
}

func Infof(str string, v ...interface{}) {
	res, args := prefixed(str, v)
	log.Infof(res, args...)
}

func Warnf(str string, v ...interface{}) {
	res, args := prefixed(str, v)
	log.Warnf(res, args...)
}
