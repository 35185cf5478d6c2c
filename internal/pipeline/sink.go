package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sink 输出目标：标准输出或文件。
type Sink struct {
	path string // 空表示标准输出
}

// StdoutSink 返回标准输出目标。
func StdoutSink() Sink { return Sink{} }

// FileSink 返回文件目标。
func FileSink(path string) Sink { return Sink{path: path} }

// ParseSink 解析输出参数，"-" 为标准输出。
func ParseSink(spec string) (Sink, error) {
	switch spec {
	case "":
		return Sink{}, fmt.Errorf("%w: output must not be empty", ErrUsage)
	case Stdio:
		return StdoutSink(), nil
	default:
		return FileSink(spec), nil
	}
}

// IsStdout 判断是否为标准输出。
func (s Sink) IsStdout() bool { return s.path == "" }

// Path 返回文件路径，标准输出时为空。
func (s Sink) Path() string { return s.path }

// Name 用于日志和错误信息。
func (s Sink) Name() string {
	if s.IsStdout() {
		return "<stdout>"
	}

	return s.path
}

// Write 打开目标 (文件会被创建或截断) 并交给 fn 写入，结束时 flush 并关闭。
//
// fn 返回错误时已经写入的内容仍会 flush，不做回滚。
func (s Sink) Write(stdout io.Writer, fn func(io.Writer) error) error {
	var (
		dst     io.Writer = stdout
		closeFn           = func() error { return nil }
	)
	if !s.IsStdout() {
		f, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrRender, s.path, err)
		}
		dst, closeFn = f, f.Close
	}

	bw := bufio.NewWriter(dst)
	renderErr := fn(bw)
	flushErr := bw.Flush()
	closeErr := closeFn()

	if renderErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, s.Name(), renderErr)
	}
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRender, s.Name(), err)
	}

	return nil
}
