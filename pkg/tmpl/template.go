package tmpl

import (
	"bytes"
	"strings"
	"text/template"
)

// ═══════════════════════════════════════════════════════════════════════════
// 模板函数 (参考: Taskfile 和 Sprig)
// ═══════════════════════════════════════════════════════════════════════════

// Funcs 返回绑定到变量表 vars 的模板函数映射表。
//
// env 函数只读取 vars，不访问进程环境，渲染结果仅由 vars 决定。
func Funcs(vars map[string]string) template.FuncMap {
	return template.FuncMap{
		"env":      envFunc(vars),
		"default":  defaultFunc,
		"coalesce": coalesceFunc,
	}
}

// envFunc 获取变量，支持可选的默认值。
//
// 使用方式：
//   - {{env "VAR"}}           获取变量，未设置时返回空字符串
//   - {{env "VAR" "default"}} 获取变量，未设置时返回默认值
//   - {{env "VAR" | default "fallback"}} 管道语法
func envFunc(vars map[string]string) func(key string, defaultVal ...string) string {
	return func(key string, defaultVal ...string) string {
		if val := vars[key]; val != "" {
			return val
		}
		if len(defaultVal) > 0 {
			return defaultVal[0]
		}

		return ""
	}
}

// defaultFunc 提供默认值（管道友好）。
//
// 参考 Sprig 实现，参数顺序：default(默认值, 实际值)
func defaultFunc(defaultVal, value any) any {
	if value == nil {
		return defaultVal
	}
	if str, ok := value.(string); ok && str == "" {
		return defaultVal
	}

	return value
}

// coalesceFunc 返回第一个非空值（类似 Taskfile/Sprig）。
//
// 使用方式：
//   - {{coalesce .VAR1 .VAR2 "default"}}
func coalesceFunc(values ...any) any {
	for _, v := range values {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}

		return v
	}

	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板数据对象 (与 Taskfile 设计对齐)
// ═══════════════════════════════════════════════════════════════════════════

// EnvironData 把 KEY=VALUE 形式的环境快照转换为变量表。
//
// 同名变量以后出现的为准；不含 "=" 的条目被忽略。
func EnvironData(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, env := range environ {
		key, val, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		vars[key] = val
	}

	return vars
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板渲染
// ═══════════════════════════════════════════════════════════════════════════

// Expand 使用变量表 vars 展开模板字符串。
//
// 支持的语法：
//   - {{.VAR}} - 直接访问变量（Taskfile 风格）
//   - {{env "VAR"}} - env 函数方式
//   - {{env "VAR" "default"}} - 带默认值
//   - {{.VAR | default "fallback"}} - 管道式默认值
//   - {{coalesce .VAR1 .VAR2 "default"}} - 多级 fallback
//
// 模板语法错误或执行失败时返回 error。
func Expand(text string, vars map[string]string) (string, error) {
	t, err := template.New("expand").Funcs(Funcs(vars)).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", err
	}

	return buf.String(), nil
}
