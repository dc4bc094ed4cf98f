package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志选项
type Options struct {
	Debug   bool
	Verbose bool   // 详细模式，输出每个分块的原文和译文
	LogFile string // 非空时额外写入 JSON 日志文件
}

// Level 根据选项确定控制台日志级别
func (o Options) Level() zapcore.Level {
	if o.Debug || o.Verbose {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// NewLogger 创建一个控制台日志记录器
func NewLogger(debug bool) *zap.Logger {
	logger, err := New(Options{Debug: debug})
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}
	return logger
}

// NewLoggerWithVerbose 创建控制台日志记录器，verbose 时同样输出调试信息
func NewLoggerWithVerbose(debug, verbose bool) *zap.Logger {
	logger, err := New(Options{Debug: debug, Verbose: verbose})
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}
	return logger
}

// New 按选项创建日志记录器：彩色控制台输出到 stderr，可选 JSON 文件输出
func New(opts Options) (*zap.Logger, error) {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		opts.Level(),
	)
	if opts.LogFile == "" {
		return zap.New(consoleCore), nil
	}

	fileCore, err := newFileCore(opts.LogFile)
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewTee(consoleCore, fileCore)), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewDevelopmentEncoderConfig()
	config.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	config.EncodeDuration = zapcore.StringDurationEncoder
	config.CallerKey = ""
	config.StacktraceKey = ""
	return config
}

// newFileCore 文件日志始终记录调试级别，使用生产环境的 JSON 编码
func newFileCore(path string) (zapcore.Core, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeDuration = zapcore.StringDurationEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(config), zapcore.Lock(file), zap.DebugLevel), nil
}
