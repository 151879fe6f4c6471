package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger 全局日志实例，Init之前就可以安全使用（沿用zerolog默认配置）。
var Logger = log.Logger

// Config 日志配置。
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // debug / info / warn / error
	Format       string `json:"format" yaml:"format"`               // json 或 pretty
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 时间戳格式，空值回退RFC3339
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 是否输出调用位置
}

// Init 按配置重建全局日志实例。级别解析失败时回退到info而不是报错，
// 保证日志系统在配置残缺时也能工作。
func Init(config Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.TimeFormat == "" {
		config.TimeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = config.TimeFormat

	var output io.Writer = os.Stdout
	if config.Format == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: config.TimeFormat,
		}
	}

	builder := zerolog.New(output).Level(level).With().Timestamp()
	if config.ReportCaller {
		builder = builder.Caller()
	}

	Logger = builder.Logger()
	log.Logger = Logger
}

// Debug 开始一条debug级别日志。
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条info级别日志。
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条warn级别日志。
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条error级别日志。
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 开始一条fatal级别日志，记录后进程退出。
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}
