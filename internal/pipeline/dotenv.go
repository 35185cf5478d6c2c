package pipeline

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// DefaultDotenvFile 默认的 dotenv 文件，相对于当前工作目录。
const DefaultDotenvFile = ".env"

// DotenvLoader 把 dotenv 文件合并进进程环境。
//
// 默认保留已存在的变量 (godotenv.Load 语义)，多个文件时先出现的优先；
// Override 为 true 时覆盖已存在的变量 (godotenv.Overload 语义)，后出现的优先。
type DotenvLoader struct {
	Files    []string
	Override bool

	// 为 nil 时使用 os.LookupEnv / os.Setenv
	LookupEnv func(key string) (string, bool)
	Setenv    func(key, value string) error
}

// Load 依次读取 Files (为空时读取 .env) 并写入环境。
// 任何文件缺失或无法解析都返回 ErrEnvLoad。
func (l DotenvLoader) Load() error {
	lookup, setenv := l.LookupEnv, l.Setenv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if setenv == nil {
		setenv = os.Setenv
	}

	files := l.Files
	if len(files) == 0 {
		files = []string{DefaultDotenvFile}
	}

	for _, file := range files {
		vars, err := godotenv.Read(file)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrEnvLoad, file, err)
		}

		applied := 0
		for _, key := range slices.Sorted(maps.Keys(vars)) {
			if _, exists := lookup(key); exists && !l.Override {
				continue
			}
			if err := setenv(key, vars[key]); err != nil {
				return fmt.Errorf("%w: set %s from %s: %w", ErrEnvLoad, key, file, err)
			}
			applied++
		}
		slog.Debug("Loaded dotenv file", "file", file, "vars", len(vars), "applied", applied, "override", l.Override)
	}

	return nil
}
