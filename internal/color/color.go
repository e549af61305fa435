package color

import "github.com/fatih/color"

var (
	red     = color.New(color.FgRed)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow)
	cyan    = color.New(color.FgCyan)
	magenta = color.New(color.FgMagenta)
)

func FgRed(format string, a ...interface{}) string {
	return red.Sprintf(format, a...)
}

func FgGreen(format string, a ...interface{}) string {
	return green.Sprintf(format, a...)
}

func FgYellow(format string, a ...interface{}) string {
	return yellow.Sprintf(format, a...)
}

func FgCyan(format string, a ...interface{}) string {
	return cyan.Sprintf(format, a...)
}

func FgMagenta(format string, a ...interface{}) string {
	return magenta.Sprintf(format, a...)
}
