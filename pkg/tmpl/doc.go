// Package tmpl 提供基于 text/template 的环境变量展开功能。
//
// 与 Taskfile 模板语法对齐，用于两处：
//   - 配置文件在解析之前先做一次展开 (见 pkg/config)
//   - menv 的 gotmpl 渲染引擎 (见 internal/render)
//
// # 核心设计原则
//
//  1. 变量通过 {{.VAR}} 直接可用（Taskfile 风格）
//  2. env 函数可选，在变量名与模板关键字冲突时使用
//  3. 管道友好：{{.VAR | default "fallback"}}
//  4. 多级 fallback：coalesce 函数支持降级链
//
// # 支持的函数
//
//   - env: 获取变量 {{env "VAR"}} 或 {{env "VAR" "default"}}
//   - default: 管道默认值 {{.VAR | default "fallback"}}
//   - coalesce: 返回第一个非空值 {{coalesce .VAR1 .VAR2 "default"}}
//
// 变量表由调用方注入 ([Expand])，需要进程环境时传入 EnvironData(os.Environ())。
package tmpl
