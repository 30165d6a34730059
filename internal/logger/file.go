package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// fileMaxSizeMB is the size in megabytes at which the log file is rotated.
	fileMaxSizeMB = 5
	// fileMaxBackups is the number of rotated files kept next to the active one.
	fileMaxBackups = 3
	// fileMaxAgeDays is the number of days rotated files are kept.
	fileMaxAgeDays = 30
	// fileDirPermissions is used when the log directory has to be created.
	fileDirPermissions = 0o755
)

// AttachFile tees the global logger into a rotating file at path.
// Console output is unchanged. The returned closer restores the previous
// global logger and releases the file.
func AttachFile(path string) (io.Closer, error) {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), fileDirPermissions); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		MaxAge:     fileMaxAgeDays,
	}

	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig(zapcore.CapitalLevelEncoder, "time")),
		zapcore.AddSync(rotating),
		defaultLevel,
	)

	previous := global
	SetLogger(zap.New(zapcore.NewTee(previous.Desugar().Core(), fileCore)).Sugar())

	return &fileCloser{
		previous: previous,
		rotating: rotating,
	}, nil
}

// fileCloser detaches the log file from the global logger.
type fileCloser struct {
	// previous is the global logger before the file was attached.
	previous *zap.SugaredLogger
	// rotating is the file writer.
	rotating *lumberjack.Logger
	// once guards against closing twice.
	once sync.Once
}

// Close implements io.Closer.
func (c *fileCloser) Close() error {
	var err error

	c.once.Do(func() {
		//nolint:errcheck // No need to check the error here.
		global.Sync()
		SetLogger(c.previous)

		err = c.rotating.Close()
	})

	return err
}
