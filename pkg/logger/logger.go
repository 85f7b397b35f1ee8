package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，InitLogger 前为空操作实例
var Log = zap.NewNop()

// InitLogger 初始化 zap 日志
// debug 模式输出彩色控制台日志，生产模式输出 JSON
func InitLogger(debug bool) {
	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	var level zapcore.Level

	if debug {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
		level = zapcore.DebugLevel
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	Log = zap.New(core, zap.AddCaller())
}

// Sync 刷新缓冲区，在进程退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
