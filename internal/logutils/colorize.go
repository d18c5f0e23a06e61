package logutils

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan

	colorBold = 1
)

// colorize returns the string s wrapped in ANSI code c.
func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

var levelLabels = map[string]string{
	"trace": colorize("TRC", colorBlue),
	"debug": colorize("DBG", colorMagenta),
	"info":  colorize("INF", colorGreen),
	"warn":  colorize("WRN", colorYellow),
	"error": colorize("ERR", colorRed),
	"fatal": colorize(colorize("FTL", colorRed), colorBold),
}

// ConsoleFormatLevel returns a custom colorizer for zerolog console level output.
func ConsoleFormatLevel() zerolog.Formatter {
	return func(i interface{}) string {
		if ll, ok := i.(string); ok {
			if l, ok := levelLabels[ll]; ok {
				return l
			}
		}
		return colorize("???", colorBold)
	}
}

// ConsoleFormatErrFieldName returns custom formatter for error field name.
func ConsoleFormatErrFieldName() zerolog.Formatter {
	return func(i interface{}) string {
		return colorize(fmt.Sprintf("%s=", i), colorCyan)
	}
}

// ConsoleFormatErrFieldValue returns custom formatter for error value.
func ConsoleFormatErrFieldValue() zerolog.Formatter {
	return func(i interface{}) string {
		return colorize(fmt.Sprintf("%s", i), colorRed)
	}
}
