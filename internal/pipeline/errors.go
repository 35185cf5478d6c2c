package pipeline

import "errors"

// 错误分类，每个失败只归入其中一类，调用方用 errors.Is 判断。
// 所有类别都是致命的：流水线在第一个错误处停止。
var (
	ErrUsage      = errors.New("usage error")
	ErrEnvLoad    = errors.New("environment load error")
	ErrSourceRead = errors.New("template source error")
	ErrCompile    = errors.New("template compile error")
	ErrRender     = errors.New("render error")
)
