// Package menv 提供 menv 根命令：用环境变量渲染模板。
package menv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lwmacct/251207-go-pkg-version/pkg/version"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261015-go-bin-menv/internal/command"
	"github.com/lwmacct/261015-go-bin-menv/internal/config"
	"github.com/lwmacct/261015-go-bin-menv/internal/logging"
	"github.com/lwmacct/261015-go-bin-menv/internal/pipeline"
	"github.com/lwmacct/261015-go-bin-menv/internal/render"
	pkgconfig "github.com/lwmacct/261015-go-bin-menv/pkg/config"
)

const usageText = "menv [--dotenv | -d] <template> <output>"

// stdioArg 在解析前代替位置参数 "-"。
// urfave/cli 遇到单独的 "-" 即停止解析，其后的参数会被丢弃。
const stdioArg = "\x00-"

// Command 根命令
var Command = New()

// New 创建根命令。每次调用返回独立实例，测试中可替换 Reader / Writer / ErrWriter。
func New() *cli.Command {
	return &cli.Command{
		Name:            config.AppName,
		Usage:           "用环境变量渲染模板",
		UsageText:       usageText,
		ArgsUsage:       "<template> <output>",
		Version:         version.GetVersion(),
		HideHelpCommand: true,
		Description: `<template> 为模板文件路径，"-" 表示从标准输入读取。
<output> 为输出文件路径 (创建或截断)，"-" 表示写到标准输出。
所有环境变量都以同名变量的形式提供给模板，例如 {{{ HOME }}}。`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dotenv",
				Aliases: []string{"d"},
				Value:   command.Defaults.Dotenv.Enabled,
				Usage:   `渲染前从 ".env" 文件加载环境变量`,
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: `dotenv 文件，可重复指定 (默认 ".env")，需配合 --dotenv`,
			},
			&cli.BoolFlag{
				Name:  "dotenv-override",
				Value: command.Defaults.Dotenv.Override,
				Usage: "dotenv 中的值覆盖已存在的环境变量",
			},
			&cli.StringFlag{
				Name:  "engine",
				Value: command.Defaults.Engine,
				Usage: "模板引擎: " + strings.Join(render.Names(), " | "),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "配置文件路径",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: command.Defaults.Log.Level,
				Usage: "日志级别: debug | info | warn | error",
			},
			&cli.BoolFlag{
				Name:  "print-config",
				Usage: "以 YAML 输出生效的配置后退出",
			},
		},
		Action: action,
	}
}

// Run 执行 cmd，位置参数中的 "-" 在交给解析器之前被转义。
func Run(ctx context.Context, cmd *cli.Command, args []string) error {
	return cmd.Run(ctx, escapeStdio(cmd, args))
}

// Execute 执行 cmd 并返回进程退出码，失败时向 ErrWriter 写入 "error: <msg>"。
func Execute(ctx context.Context, cmd *cli.Command, args []string) int {
	if err := Run(ctx, cmd, args); err != nil {
		_, _ = fmt.Fprintf(errWriter(cmd), "error: %v\n", err)
		return 1
	}

	return 0
}

// escapeStdio 把作为位置参数出现的 "-" 替换为 stdioArg。
// 取值 flag 的参数 (如 --env-file -) 以及 "--" 之后的参数原样保留。
func escapeStdio(cmd *cli.Command, args []string) []string {
	if len(args) == 0 {
		return args
	}

	valued := valueFlags(cmd)
	out := make([]string, 0, len(args))
	out = append(out, args[0])

	expectValue := false
	for i, arg := range args[1:] {
		switch {
		case expectValue:
			expectValue = false
		case arg == "--":
			return append(append(out, arg), args[i+2:]...)
		case arg == pipeline.Stdio:
			arg = stdioArg
		case strings.HasPrefix(arg, "-") && !strings.Contains(arg, "="):
			expectValue = valued[strings.TrimLeft(arg, "-")]
		}
		out = append(out, arg)
	}

	return out
}

// valueFlags 返回需要参数值的 flag 名称 (含别名)。
func valueFlags(cmd *cli.Command) map[string]bool {
	names := make(map[string]bool)
	for _, f := range cmd.Flags {
		if df, ok := f.(cli.DocGenerationFlag); ok && df.TakesValue() {
			for _, name := range f.Names() {
				names[name] = true
			}
		}
	}

	return names
}

func unescapeStdio(arg string) string {
	if arg == stdioArg {
		return pipeline.Stdio
	}

	return arg
}

func action(ctx context.Context, cmd *cli.Command) error {
	printConfig := cmd.Bool("print-config")

	var inv pipeline.Invocation
	if !printConfig {
		var err error
		if inv, err = invocation(cmd); err != nil {
			_, _ = fmt.Fprintf(errWriter(cmd), "Usage: %s\n", usageText)
			return err
		}
	}

	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := config.Load(cmd, cmd.String("config"))
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	slog.DebugContext(ctx, "Config loaded", "engine", cfg.Engine, "dotenv", cfg.Dotenv.Enabled, "files", cfg.Dotenv.Files)

	if printConfig {
		out, err := pkgconfig.ExampleYAML(*cfg, "menv 生效配置")
		if err != nil {
			return err
		}
		_, err = writer(cmd).Write(out)
		return err
	}

	engine, err := render.Lookup(cfg.Engine)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrUsage, err)
	}
	inv.UseDotenv = cfg.Dotenv.Enabled

	return pipeline.Run(ctx, pipeline.Options{
		Invocation: inv,
		Engine:     engine,
		Dotenv: pipeline.DotenvLoader{
			Files:    cfg.Dotenv.Files,
			Override: cfg.Dotenv.Override,
		},
		Stdin:  reader(cmd),
		Stdout: writer(cmd),
	})
}

// invocation 校验位置参数：必须恰好是 <template> <output>。
func invocation(cmd *cli.Command) (pipeline.Invocation, error) {
	if cmd.NArg() != 2 {
		return pipeline.Invocation{}, fmt.Errorf("%w: expected <template> and <output>, got %d argument(s)", pipeline.ErrUsage, cmd.NArg())
	}

	return pipeline.ParseInvocation(false, unescapeStdio(cmd.Args().Get(0)), unescapeStdio(cmd.Args().Get(1)))
}

func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
