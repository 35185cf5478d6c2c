// Package logging 初始化写入 stderr 的全局 logger。
//
// 标准输出可能承载渲染结果，日志只写 stderr。
// stderr 是终端时使用 tint 彩色输出，否则由 logm 输出纯文本。
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/lwmacct/251219-go-pkg-logm/pkg/logm"
	"github.com/lwmacct/251219-go-pkg-logm/pkg/logm/formatter"
	"github.com/lwmacct/251219-go-pkg-logm/pkg/logm/writer"
	"github.com/mattn/go-isatty"
)

// DefaultLevel 未配置时的日志级别
const DefaultLevel = "warn"

// Level 是全局日志级别，Init 之后可通过 SetLevel 调整。
var Level = new(slog.LevelVar)

// NewTerminalHandler 创建 tint handler，w 为终端时启用颜色。
func NewTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      Level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	})
}

// Options 返回 logm 初始化选项：输出到 w，纯文本格式，级别绑定 Level。
func Options(w logm.Writer) []logm.Option {
	return []logm.Option{
		logm.WithWriter(w),
		logm.WithLevel(DefaultLevel),
		logm.WithLevelVar(Level),
		logm.WithFormatter(formatter.Text(formatter.WithTimeFormat("rfc3339ms"))),
	}
}

// Init 设置全局 logger，默认级别 warn。
func Init() error {
	if isTerminal(os.Stderr) {
		Level.Set(slog.LevelWarn)
		slog.SetDefault(slog.New(NewTerminalHandler(os.Stderr)))
		return nil
	}

	return logm.Init(Options(writer.Stderr())...)
}

// SetLevel 按名称设置日志级别：debug | info | warn | error。
func SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	Level.Set(level)

	return nil
}

// ParseLevel 解析级别名称，大小写不敏感，空串为 warn。
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
