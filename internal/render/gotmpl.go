package render

import (
	"fmt"
	"io"
	"text/template"

	"github.com/lwmacct/261015-go-bin-menv/pkg/tmpl"
)

// GoTmpl 基于 text/template 的引擎，函数集见 [tmpl.Funcs]。
//
// env 函数读取渲染时的变量表而非进程环境。缺失变量输出 "<no value>"。
type GoTmpl struct{}

// Compile 实现 [Engine]。dir 未使用。
func (GoTmpl) Compile(name, _, text string) (Template, error) {
	t, err := template.New(name).Funcs(tmpl.Funcs(nil)).Parse(text)
	if err != nil {
		return nil, err
	}

	return &goTemplate{tmpl: t}, nil
}

type goTemplate struct {
	tmpl *template.Template
}

// Render 在副本上重新绑定函数，编译结果本身保持不变。
func (t *goTemplate) Render(w io.Writer, vars map[string]string) error {
	bound, err := t.tmpl.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone template: %w", err)
	}

	return bound.Funcs(tmpl.Funcs(vars)).Execute(w, vars)
}
