package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// Stdio 是表示标准输入/标准输出的哨兵。
const Stdio = "-"

// Source 模板来源：标准输入或文件。
type Source struct {
	path string // 空表示标准输入
}

// StdinSource 返回标准输入来源。
func StdinSource() Source { return Source{} }

// FileSource 返回文件来源。
func FileSource(path string) Source { return Source{path: path} }

// ParseSource 解析模板参数，"-" 为标准输入。
func ParseSource(spec string) (Source, error) {
	switch spec {
	case "":
		return Source{}, fmt.Errorf("%w: template must not be empty", ErrUsage)
	case Stdio:
		return StdinSource(), nil
	default:
		return FileSource(spec), nil
	}
}

// IsStdin 判断是否为标准输入。
func (s Source) IsStdin() bool { return s.path == "" }

// Path 返回文件路径，标准输入时为空。
func (s Source) Path() string { return s.path }

// Name 用于日志和错误信息。
func (s Source) Name() string {
	if s.IsStdin() {
		return "<stdin>"
	}

	return s.path
}

// Dir 返回 partial 查找目录：文件所在目录，标准输入时为当前工作目录。
func (s Source) Dir() string {
	if s.IsStdin() {
		return "."
	}

	return filepath.Dir(s.path)
}

// Read 读取全部模板文本，内容必须是合法的 UTF-8。
func (s Source) Read(stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if s.IsStdin() {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(s.path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrSourceRead, s.Name(), err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrSourceRead, s.Name())
	}

	return string(data), nil
}
