// Package render 定义模板引擎接口及其实现。
//
// 引擎只做两件事：把模板文本编译成 [Template]，再把 Template 针对一个
// 扁平的字符串变量表渲染到 io.Writer。其余流程 (读源、写出) 不依赖具体引擎。
package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// 引擎名称
const (
	EngineMustache = "mustache"
	EngineGoTmpl   = "gotmpl"
)

// Template 编译后的模板，只读。
type Template interface {
	Render(w io.Writer, vars map[string]string) error
}

// Engine 模板引擎。
type Engine interface {
	// Compile 编译模板文本，name 用于错误信息，dir 为 partial 的查找目录。
	Compile(name, dir, text string) (Template, error)
}

var engines = map[string]Engine{
	EngineMustache: Mustache{},
	EngineGoTmpl:   GoTmpl{},
}

// Lookup 按名称返回引擎。
func Lookup(name string) (Engine, error) {
	if e, ok := engines[name]; ok {
		return e, nil
	}

	return nil, fmt.Errorf("unknown template engine %q (available: %v)", name, Names())
}

// Names 返回已注册的引擎名称，按字母序。
func Names() []string {
	return slices.Sorted(maps.Keys(engines))
}
