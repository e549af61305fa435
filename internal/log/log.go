package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const LogFileName = "bbsync.log"

var Log = logrus.New()

// InitLogger sends all log output to the log file so the terminal only carries
// the progress view and the final report.
func InitLogger(verbose bool) error {
	file, err := os.OpenFile(GetLogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	configure(file, verbose)
	return nil
}

func configure(out io.Writer, verbose bool) {
	Log.SetOutput(out)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		Log.Debugln("Verbose (debug) logging enabled")
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

func GetLogFilePath() string {
	path, err := filepath.Abs(LogFileName)
	if err != nil {
		return LogFileName
	}
	return path
}
