package pipeline

import "github.com/lwmacct/261015-go-bin-menv/pkg/tmpl"

// Context 渲染上下文：变量名 → 值，构建后只读。
type Context map[string]string

// BuildContext 从 KEY=VALUE 形式的环境快照构建渲染上下文。
//
// 不做过滤或转义；同名变量以后出现的为准，不含 "=" 的条目被忽略。
func BuildContext(environ []string) Context {
	return tmpl.EnvironData(environ)
}
