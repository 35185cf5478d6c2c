// Author: lwmacct (https://github.com/lwmacct)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261015-go-bin-menv/pkg/tmpl"
)

// Option 配置加载选项
type Option func(*options)

type options struct {
	cmd         *cli.Command
	configPaths []string
	configFile  string
	envPrefix   string
	envBindings map[string]string
	environ     []string
}

// WithCommand 设置 CLI 命令，用户明确指定的 flags 拥有最高优先级。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) { o.cmd = cmd }
}

// WithConfigPaths 设置配置文件搜索路径，找到第一个存在的文件即停止。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) { o.configPaths = append(o.configPaths, paths...) }
}

// WithConfigFile 指定唯一的配置文件，文件不存在时 Load 返回错误。
// 设置后忽略 WithConfigPaths。
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithEnvPrefix 启用前缀环境变量。
//
// 每个 koanf key 自动绑定到 前缀 + 大写 key (. 和 - 转为 _)，
// 例如前缀 "MYAPP_" 时 server.skip-verify ← MYAPP_SERVER_SKIP_VERIFY。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

// WithEnvBinding 将环境变量 envName 直接绑定到 koanf key，优先级高于前缀环境变量。
func WithEnvBinding(envName, key string) Option {
	return func(o *options) {
		if o.envBindings == nil {
			o.envBindings = make(map[string]string)
		}
		o.envBindings[envName] = key
	}
}

// WithEnviron 注入 KEY=VALUE 形式的环境快照，默认为 os.Environ()。
func WithEnviron(environ []string) Option {
	return func(o *options) { o.environ = environ }
}

// DefaultPaths 返回默认配置文件搜索路径。
// appName 为空时返回空列表。
func DefaultPaths(appName string) []string {
	if appName == "" {
		return nil
	}

	paths := []string{
		"." + appName + ".yaml",
		"." + appName + ".json",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appName+".yaml"))
	}
	paths = append(paths, "/etc/"+appName+"/config.yaml")

	return paths
}

// Load 加载配置，按优先级合并 (从低到高)：
//  1. 默认值 - defaultConfig
//  2. 配置文件 - 展开模板后解析，yaml 或 json 由扩展名决定
//  3. 环境变量(前缀)
//  4. 环境变量(绑定)
//  5. CLI flags
//
// 泛型参数 T 为配置结构体类型，必须使用 koanf tag 标记字段。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.environ == nil {
		o.environ = os.Environ()
	}
	vars := tmpl.EnvironData(o.environ)

	k := koanf.New(".")

	// 1️⃣ 默认值
	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// 2️⃣ 配置文件
	if err := loadConfigFile(k, o, vars); err != nil {
		return nil, err
	}

	// 3️⃣ 4️⃣ 环境变量
	if err := k.Load(confmap.Provider(envOverrides(k, o, vars), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	// 5️⃣ CLI flags (仅当用户明确指定时)
	if o.cmd != nil {
		applyCLIFlags(o.cmd, k, reflect.TypeOf(defaultConfig), "")
	}

	var cfg T
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// loadConfigFile 读取第一个可用的配置文件。
func loadConfigFile(k *koanf.Koanf, o *options, vars map[string]string) error {
	if o.configFile != "" {
		return loadFile(k, o.configFile, vars)
	}

	for _, path := range o.configPaths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := loadFile(k, path, vars); err != nil {
			return err
		}
		return nil
	}
	slog.Debug("No config file found, using defaults")

	return nil
}

// loadFile 读取文件内容，展开其中的模板后交给对应的 parser。
func loadFile(k *koanf.Koanf, path string, vars map[string]string) error {
	raw, err := file.Provider(path).ReadBytes()
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded, err := tmpl.Expand(string(raw), vars)
	if err != nil {
		return fmt.Errorf("failed to expand config file %s: %w", path, err)
	}

	if err := k.Load(rawbytes.Provider([]byte(expanded)), parserForPath(path)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	slog.Debug("Loaded config from file", "path", path)

	return nil
}

// parserForPath 按扩展名选择 parser，默认 yaml。
func parserForPath(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}

	return yaml.Parser()
}

// envOverrides 收集前缀环境变量与绑定环境变量，返回 koanf key → 值。
func envOverrides(k *koanf.Koanf, o *options, vars map[string]string) map[string]any {
	out := make(map[string]any)

	if o.envPrefix != "" {
		for _, key := range k.Keys() {
			if val, ok := vars[envName(o.envPrefix, key)]; ok {
				out[key] = envValue(k, key, val)
			}
		}
	}

	for env, key := range o.envBindings {
		if val, ok := vars[env]; ok {
			out[key] = envValue(k, key, val)
		}
	}

	return out
}

// envName 把 koanf key 转换为环境变量名：server.skip-verify → PREFIX_SERVER_SKIP_VERIFY
func envName(prefix, key string) string {
	name := strings.NewReplacer(".", "_", "-", "_").Replace(key)
	return prefix + strings.ToUpper(name)
}

// envValue 切片类型的 key 按逗号拆分，其余保持字符串交给 Unmarshal 做弱类型转换。
func envValue(k *koanf.Koanf, key, val string) any {
	if cur := k.Get(key); cur != nil && reflect.TypeOf(cur).Kind() == reflect.Slice {
		if val == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	return val
}

// applyCLIFlags 递归遍历结构体字段，将用户明确指定的 CLI flags 写入 koanf。
//
// flag 名称默认由 koanf key 推导 (. 和 _ 转为 -)：dotenv.files → --dotenv-files，
// 字段上的 flag tag 可以覆盖推导结果，flag:"-" 表示该字段没有对应 flag。
func applyCLIFlags(cmd *cli.Command, k *koanf.Koanf, typ reflect.Type, prefix string) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		koanfKey := field.Tag.Get("koanf")
		if koanfKey == "" {
			continue
		}
		fullKey := koanfKey
		if prefix != "" {
			fullKey = prefix + "." + koanfKey
		}

		if isNestedStruct(field.Type) {
			applyCLIFlags(cmd, k, field.Type, fullKey)
			continue
		}

		flagName := field.Tag.Get("flag")
		switch flagName {
		case "-":
			continue
		case "":
			flagName = strings.NewReplacer(".", "-", "_", "-").Replace(fullKey)
		}

		if !cmd.IsSet(flagName) {
			continue
		}
		setFlagValue(cmd, k, fullKey, flagName, field.Type)
	}
}

func isNestedStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		t != reflect.TypeFor[time.Duration]() &&
		t != reflect.TypeFor[time.Time]()
}

// setFlagValue 根据字段类型从 CLI 取值并写入 koanf
func setFlagValue(cmd *cli.Command, k *koanf.Koanf, key, flagName string, fieldType reflect.Type) {
	if fieldType == reflect.TypeFor[time.Duration]() {
		_ = k.Set(key, cmd.Duration(flagName))
		return
	}

	switch fieldType.Kind() {
	case reflect.String:
		_ = k.Set(key, cmd.String(flagName))
	case reflect.Bool:
		_ = k.Set(key, cmd.Bool(flagName))
	case reflect.Int, reflect.Int64:
		_ = k.Set(key, cmd.Int(flagName))
	case reflect.Float64:
		_ = k.Set(key, cmd.Float64(flagName))
	case reflect.Slice:
		if fieldType.Elem().Kind() == reflect.String {
			_ = k.Set(key, cmd.StringSlice(flagName))
		}
	}
}
