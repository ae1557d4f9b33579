package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志器,InitLogger之前只输出到标准错误
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

const (
	// MainLogFile 主日志文件名,记录所有级别
	MainLogFile = "autodelete.log"

	// ErrorLogFile 错误日志文件名,只记录删除失败等错误
	ErrorLogFile = "autodelete_error.log"
)

// LogConfig 日志配置
type LogConfig struct {
	Level      string    // trace, debug, info, warn, error
	LogDir     string    // 日志目录
	MaxSize    int       // 单个日志文件最大大小(MB)
	MaxBackups int       // 保留的旧日志文件数量
	MaxAge     int       // 保留天数
	Compress   bool      // 是否压缩旧日志
	Console    io.Writer // 控制台输出,为nil时使用标准错误
}

// InitLogger 初始化日志系统
// 控制台彩色输出,主日志和错误日志分别轮转
func InitLogger(config LogConfig) error {
	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	console := config.Console
	if console == nil {
		// 标准输出留给status等命令
		console = os.Stderr
	}

	writer := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
		rotatingFile(config, MainLogFile),
		&minLevelWriter{out: rotatingFile(config, ErrorLogFile), min: zerolog.ErrorLevel},
	)

	Logger = zerolog.New(writer).With().Timestamp().Caller().Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("log_dir", config.LogDir).
		Msg("日志系统初始化完成")
	return nil
}

func rotatingFile(config LogConfig, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(config.LogDir, name),
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
}

// minLevelWriter 只写入min及以上级别的事件
type minLevelWriter struct {
	out io.Writer
	min zerolog.Level
}

// Write 不带级别的写入无法判断级别,直接丢弃
func (w *minLevelWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func (w *minLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.min {
		return len(p), nil
	}
	return w.out.Write(p)
}

// Entry 带队列条目字段的子日志器
func Entry(url string, index, total int) zerolog.Logger {
	return Logger.With().
		Str("url", url).
		Int("index", index).
		Int("total", total).
		Logger()
}

// Info 信息日志
func Info(msg string) {
	Logger.Info().Msg(msg)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Warn 警告日志
func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}

// Error 带error字段的错误日志
func Error(err error, msg string) {
	Logger.Error().Err(err).Msg(msg)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	Logger.Error().Msgf(format, args...)
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}
