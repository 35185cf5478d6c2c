package render

import (
	"fmt"
	"io"

	"github.com/cbroglie/mustache"
)

// partialExtensions partial 文件名的候选扩展名，按顺序尝试。
var partialExtensions = []string{"", ".mustache", ".stache"}

// Mustache 基于 cbroglie/mustache 的引擎。
//
// {{ X }} 做 HTML 转义，{{{ X }}} 和 {{& X }} 原样输出；缺失的变量渲染为空。
// {{> name }} 从 dir 查找 partial。
type Mustache struct{}

// Compile 实现 [Engine]。
func (Mustache) Compile(name, dir, text string) (Template, error) {
	partials := &mustache.FileProvider{
		Paths:      []string{dir},
		Extensions: partialExtensions,
	}

	t, err := mustache.ParseStringPartials(text, partials)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &mustacheTemplate{tmpl: t}, nil
}

type mustacheTemplate struct {
	tmpl *mustache.Template
}

func (t *mustacheTemplate) Render(w io.Writer, vars map[string]string) error {
	return t.tmpl.FRender(w, vars)
}
