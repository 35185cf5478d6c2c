// Package config 提供 menv 的配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - --config 指定，否则搜索 DefaultPaths
//  3. 环境变量 - MENV_ 前缀
//  4. CLI flags
package config

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261015-go-bin-menv/internal/render"
	"github.com/lwmacct/261015-go-bin-menv/pkg/config"
)

// AppName 应用名，决定默认配置文件路径 (.menv.yaml 等)
const AppName = "menv"

// EnvPrefix 配置项环境变量前缀
const EnvPrefix = "MENV_"

// Config 应用配置
type Config struct {
	Engine string       `koanf:"engine" desc:"模板引擎: mustache | gotmpl"`
	Dotenv DotenvConfig `koanf:"dotenv" desc:"dotenv 文件加载"`
	Log    LogConfig    `koanf:"log" desc:"日志"`
}

// DotenvConfig dotenv 配置
type DotenvConfig struct {
	Enabled  bool     `koanf:"enabled" desc:"渲染前加载 dotenv 文件" flag:"dotenv"`
	Files    []string `koanf:"files" desc:"dotenv 文件列表，相对于当前工作目录" flag:"env-file"`
	Override bool     `koanf:"override" desc:"dotenv 中的值覆盖已存在的环境变量"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `koanf:"level" desc:"日志级别: debug | info | warn | error"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Engine: render.EngineMustache,
		Dotenv: DotenvConfig{
			Enabled:  false,
			Files:    []string{".env"},
			Override: false,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Name 返回应用名，用于默认配置文件路径。
//
// 不使用构建信息推导的名称：那是模块名 (go-bin-menv)，不是二进制名。
func Name() string {
	return AppName
}

// Load 加载配置。configFile 非空时只读取该文件。
func Load(cmd *cli.Command, configFile string, opts ...config.Option) (*Config, error) {
	base := []config.Option{
		config.WithCommand(cmd),
		config.WithEnvPrefix(EnvPrefix),
	}
	if configFile != "" {
		base = append(base, config.WithConfigFile(configFile))
	} else {
		base = append(base, config.WithConfigPaths(config.DefaultPaths(Name())...))
	}

	return config.Load(DefaultConfig(), append(base, opts...)...)
}
