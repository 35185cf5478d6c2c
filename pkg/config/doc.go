// Package config 提供通用的分层配置加载功能。
//
// # 特性
//
// 使用泛型支持任意配置结构体类型，配置加载优先级 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 WithConfigFile 或 WithConfigPaths 选项设置
//  3. 环境变量(前缀) - 通过 WithEnvPrefix 选项启用
//  4. 环境变量(绑定) - 通过 WithEnvBinding 设置
//  5. CLI flags - 通过 WithCommand 选项设置，最高优先级
//
// # 快速开始
//
//	type Config struct {
//	    Name    string        `koanf:"name"    desc:"应用名称"`
//	    Debug   bool          `koanf:"debug"   desc:"调试模式" flag:"verbose"`
//	    Timeout time.Duration `koanf:"timeout" desc:"超时时间"`
//	}
//
//	cfg, err := config.Load(Config{Name: "default", Timeout: 30 * time.Second},
//	    config.WithConfigPaths(config.DefaultPaths("myapp")...),
//	    config.WithEnvPrefix("MYAPP_"),
//	    config.WithCommand(cmd),
//	)
//
// # 配置文件模板
//
// 配置文件在解析之前先经过 [tmpl.Expand] 展开，可以引用环境变量：
//
//	engine: '{{.MYAPP_ENGINE | default "mustache"}}'
//
// # 环境变量(前缀)
//
// 命名规则：前缀 + 大写的 koanf key，点号 (.) 和连字符 (-) 转为下划线 (_)。
// 切片类型的值按逗号拆分。
//
//   - MYAPP_DEBUG → debug
//   - MYAPP_DOTENV_FILES=a.env,b.env → dotenv.files
//
// # CLI Flag 映射
//
// flag 名称由 koanf key 推导 (. 和 _ 转为 -)，字段的 flag tag 可以覆盖：
//
//   - log.level → --log-level
//   - dotenv.enabled + `flag:"dotenv"` → --dotenv
//
// # 生成配置示例
//
// [ExampleYAML] 根据配置结构体输出带 desc 注释的 YAML。
package config
