package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/261015-go-bin-menv/internal/render"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

func TestParseInvocation(t *testing.T) {
	inv, err := ParseInvocation(true, "-", "-")
	require.NoError(t, err)
	assert.True(t, inv.UseDotenv)
	assert.True(t, inv.Source.IsStdin())
	assert.True(t, inv.Sink.IsStdout())

	inv, err = ParseInvocation(false, "in.tpl", "out.txt")
	require.NoError(t, err)
	assert.Equal(t, "in.tpl", inv.Source.Path())
	assert.Equal(t, "out.txt", inv.Sink.Path())

	_, err = ParseInvocation(false, "", "out")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = ParseInvocation(false, "in", "")
	assert.ErrorIs(t, err, ErrUsage)
}

// TestRun_SpecifierSymmetry 四种 来源 × 目标 组合的结果完全一致
func TestRun_SpecifierSymmetry(t *testing.T) {
	const tpl = "{{{ FOO }}}"

	tests := []struct {
		name     string
		fromFile bool
		toFile   bool
	}{
		{name: "file to file", fromFile: true, toFile: true},
		{name: "file to console", fromFile: true},
		{name: "console to file", toFile: true},
		{name: "console to console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			templateSpec, outputSpec := Stdio, Stdio
			if tt.fromFile {
				templateSpec = filepath.Join(dir, "in.tpl")
				writeFile(t, templateSpec, tpl)
			}
			if tt.toFile {
				outputSpec = filepath.Join(dir, "out.txt")
			}
			inv, err := ParseInvocation(false, templateSpec, outputSpec)
			require.NoError(t, err)

			var stdout bytes.Buffer
			err = Run(context.Background(), Options{
				Invocation: inv,
				Environ:    environ("FOO=bar"),
				Stdin:      strings.NewReader(tpl),
				Stdout:     &stdout,
			})
			require.NoError(t, err)

			if tt.toFile {
				assert.Equal(t, "bar", readFile(t, outputSpec))
				assert.Empty(t, stdout.String())
			} else {
				assert.Equal(t, "bar", stdout.String())
			}
		})
	}
}

func TestRun_ValueRoundTrip(t *testing.T) {
	values := []string{"", "plain", "with spaces", "ünïcödé ✓", "line1\nline2", "<html & 'quotes'>", "a=b=c"}

	for _, v := range values {
		var stdout bytes.Buffer
		err := Run(context.Background(), Options{
			Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
			Environ:    environ("VALUE=" + v),
			Stdin:      strings.NewReader("{{{VALUE}}}"),
			Stdout:     &stdout,
		})
		require.NoError(t, err)
		assert.Equal(t, v, stdout.String())
	}
}

func TestRun_Dotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "FOO=bar\n")

	env := map[string]string{}
	loader := DotenvLoader{
		Files: []string{envFile},
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		Setenv: func(k, v string) error {
			env[k] = v
			return nil
		},
	}

	var stdout bytes.Buffer
	err := Run(context.Background(), Options{
		Invocation: Invocation{UseDotenv: true, Source: StdinSource(), Sink: StdoutSink()},
		Dotenv:     loader,
		Environ: func() []string {
			var out []string
			for k, v := range env {
				out = append(out, k+"="+v)
			}
			return out
		},
		Stdin:  strings.NewReader("{{{ FOO }}}"),
		Stdout: &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "bar", stdout.String())
}

func TestRun_DotenvDisabledSkipsLoad(t *testing.T) {
	var stdout bytes.Buffer
	err := Run(context.Background(), Options{
		Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
		Dotenv:     DotenvLoader{Files: []string{filepath.Join(t.TempDir(), "missing.env")}},
		Environ:    environ(),
		Stdin:      strings.NewReader("[{{FOO}}]"),
		Stdout:     &stdout,
	})
	require.NoError(t, err)
	assert.Equal(t, "[]", stdout.String())
}

func TestRun_DotenvMissingIsFatal(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	stdinRead := false

	err := Run(context.Background(), Options{
		Invocation: Invocation{UseDotenv: true, Source: StdinSource(), Sink: FileSink(out)},
		Dotenv:     DotenvLoader{Files: []string{filepath.Join(dir, "missing.env")}},
		Environ:    environ(),
		Stdin: readerFunc(func([]byte) (int, error) {
			stdinRead = true
			return 0, io.EOF
		}),
	})
	require.ErrorIs(t, err, ErrEnvLoad)
	assert.False(t, stdinRead, "template must not be read after dotenv failure")
	assert.NoFileExists(t, out)
}

func TestRun_MalformedTemplate(t *testing.T) {
	for _, engine := range []render.Engine{render.Mustache{}, render.GoTmpl{}} {
		dir := t.TempDir()
		out := filepath.Join(dir, "out.txt")
		writeFile(t, out, "previous content")

		var stdout bytes.Buffer
		err := Run(context.Background(), Options{
			Invocation: Invocation{Source: StdinSource(), Sink: FileSink(out)},
			Engine:     engine,
			Environ:    environ("FOO=bar"),
			Stdin:      strings.NewReader("{{{"),
			Stdout:     &stdout,
		})
		require.ErrorIs(t, err, ErrCompile)
		assert.Equal(t, "previous content", readFile(t, out), "destination untouched on compile failure")
		assert.Empty(t, stdout.String())

		err = Run(context.Background(), Options{
			Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
			Engine:     engine,
			Environ:    environ("FOO=bar"),
			Stdin:      strings.NewReader("{{{"),
			Stdout:     &stdout,
		})
		require.ErrorIs(t, err, ErrCompile)
		assert.Empty(t, stdout.String())
	}
}

func TestRun_SourceErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		err := Run(context.Background(), Options{
			Invocation: Invocation{Source: FileSource(filepath.Join(t.TempDir(), "nope.tpl")), Sink: StdoutSink()},
			Environ:    environ(),
			Stdout:     io.Discard,
		})
		require.ErrorIs(t, err, ErrSourceRead)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		var stdout bytes.Buffer
		err := Run(context.Background(), Options{
			Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
			Environ:    environ(),
			Stdin:      bytes.NewReader([]byte{0xff, 0xfe, 'x'}),
			Stdout:     &stdout,
		})
		require.ErrorIs(t, err, ErrSourceRead)
		assert.Empty(t, stdout.String())
	})

	t.Run("stdin read failure", func(t *testing.T) {
		boom := errors.New("boom")
		err := Run(context.Background(), Options{
			Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
			Environ:    environ(),
			Stdin:      readerFunc(func([]byte) (int, error) { return 0, boom }),
			Stdout:     io.Discard,
		})
		require.ErrorIs(t, err, ErrSourceRead)
		assert.ErrorIs(t, err, boom)
	})
}

func TestRun_OutputOverwrite(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeFile(t, out, "a much longer previous content that must disappear")

	opts := Options{
		Invocation: Invocation{Source: StdinSource(), Sink: FileSink(out)},
		Environ:    environ("FOO=bar"),
	}

	for range 2 {
		opts.Stdin = strings.NewReader("{{{ FOO }}}")
		require.NoError(t, Run(context.Background(), opts))
		assert.Equal(t, "bar", readFile(t, out))
	}
}

func TestRun_OutputCreateFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "no-such-dir", "out.txt")

	err := Run(context.Background(), Options{
		Invocation: Invocation{Source: StdinSource(), Sink: FileSink(out)},
		Environ:    environ(),
		Stdin:      strings.NewReader("x"),
	})
	require.ErrorIs(t, err, ErrRender)
}

func TestRun_WriteFailure(t *testing.T) {
	boom := errors.New("closed pipe")

	err := Run(context.Background(), Options{
		Invocation: Invocation{Source: StdinSource(), Sink: StdoutSink()},
		Environ:    environ("FOO=bar"),
		Stdin:      strings.NewReader("{{{ FOO }}}"),
		Stdout:     writerFunc(func([]byte) (int, error) { return 0, boom }),
	})
	require.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, boom)
}

func TestRun_ContextBuiltAfterDotenv(t *testing.T) {
	var calls []string
	env := map[string]string{}

	err := Run(context.Background(), Options{
		Invocation: Invocation{UseDotenv: true, Source: StdinSource(), Sink: StdoutSink()},
		Dotenv: DotenvLoader{
			Files:     []string{writeTemp(t, "LATE=1\n")},
			LookupEnv: func(string) (string, bool) { return "", false },
			Setenv: func(k, v string) error {
				calls = append(calls, "setenv")
				env[k] = v
				return nil
			},
		},
		Environ: func() []string {
			calls = append(calls, "environ")
			return []string{"LATE=" + env["LATE"]}
		},
		Stdin:  strings.NewReader("{{LATE}}"),
		Stdout: io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"setenv", "environ"}, calls)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vars.env")
	writeFile(t, path, content)
	return path
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
