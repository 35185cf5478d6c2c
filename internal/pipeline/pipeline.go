// Package pipeline 实现 menv 的单次渲染流水线。
//
// 步骤严格线性：[加载 dotenv] → 读取模板 → 编译 → 构建上下文 → 渲染并写出。
// 任何一步失败都立即返回，不重试。
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lwmacct/261015-go-bin-menv/internal/render"
)

// Invocation 解析后的命令行。
type Invocation struct {
	UseDotenv bool
	Source    Source
	Sink      Sink
}

// ParseInvocation 由位置参数构建 Invocation。
func ParseInvocation(useDotenv bool, template, output string) (Invocation, error) {
	src, err := ParseSource(template)
	if err != nil {
		return Invocation{}, err
	}
	sink, err := ParseSink(output)
	if err != nil {
		return Invocation{}, err
	}

	return Invocation{UseDotenv: useDotenv, Source: src, Sink: sink}, nil
}

// Options 流水线依赖。零值字段使用进程默认值。
type Options struct {
	Invocation Invocation
	Engine     render.Engine
	Dotenv     DotenvLoader

	Environ func() []string // 默认 os.Environ
	Stdin   io.Reader       // 默认 os.Stdin
	Stdout  io.Writer       // 默认 os.Stdout
}

// Run 执行一次完整的渲染。
func Run(ctx context.Context, opts Options) error {
	if opts.Engine == nil {
		opts.Engine = render.Mustache{}
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	inv := opts.Invocation

	if inv.UseDotenv {
		if err := opts.Dotenv.Load(); err != nil {
			return err
		}
	}

	text, err := inv.Source.Read(opts.Stdin)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "Template loaded", "source", inv.Source.Name(), "bytes", len(text))

	tpl, err := opts.Engine.Compile(inv.Source.Name(), inv.Source.Dir(), text)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCompile, err)
	}

	// 上下文必须在 dotenv 合并之后构建
	vars := BuildContext(opts.Environ())
	slog.DebugContext(ctx, "Context built", "vars", len(vars))

	if err := inv.Sink.Write(opts.Stdout, func(w io.Writer) error {
		return tpl.Render(w, vars)
	}); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Rendered", "output", inv.Sink.Name())

	return nil
}
