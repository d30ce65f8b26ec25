package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/donutnomad/gonames/namesgen"
	"github.com/donutnomad/gonames/plugin"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCollectWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"models", "models/sub", ".git", "_examples", "vendor/x", "testdata"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	file := filepath.Join(root, "models", "user.go")
	writeTestFile(t, file, "package models\n")

	dirs, err := collectWatchDirs([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "models"), filepath.Join(root, "models", "sub")}, dirs)

	dirs, err = collectWatchDirs([]string{filepath.Join(root, "models"), file})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "models")}, dirs, "文件监听其所在目录，且不重复")

	_, err = collectWatchDirs([]string{filepath.Join(root, "missing")})
	assert.Error(t, err)
}

func TestCheckSyntax(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.go")
	writeTestFile(t, good, "package a\n\ntype A struct{}\n")
	bad := filepath.Join(dir, "bad.go")
	writeTestFile(t, bad, "package a\n\ntype A struct{\n")

	assert.NoError(t, checkSyntax(good))
	assert.Error(t, checkSyntax(bad))
	assert.Error(t, checkSyntax(filepath.Join(dir, "missing.go")))
}

func newTestRunner(t *testing.T) (*devRunner, *atomic.Int32) {
	t.Helper()

	registry := plugin.NewRegistry()
	registry.MustRegister(namesgen.NewNamesGenerator())

	runner := newDevRunner(context.Background(), registry, nil, &DevOptions{Debounce: 20 * time.Millisecond})
	var calls atomic.Int32
	runner.generate = func(string) { calls.Add(1) }
	t.Cleanup(runner.stop)
	return runner, &calls
}

func TestDevRunner_Debounce(t *testing.T) {
	runner, calls := newTestRunner(t)

	for range 5 {
		runner.scheduleGenerate("/tmp/pkg")
	}
	runner.scheduleGenerate("/tmp/other")

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load(), "同一目录只生成一次")
}

func TestDevRunner_HandleEvent(t *testing.T) {
	runner, calls := newTestRunner(t)
	dir := t.TempDir()

	annotated := filepath.Join(dir, "model.go")
	writeTestFile(t, annotated, "package a\n\n// @Names\ntype A struct{}\n")
	plain := filepath.Join(dir, "plain.go")
	writeTestFile(t, plain, "package a\n\ntype B struct{}\n")
	broken := filepath.Join(dir, "broken.go")
	writeTestFile(t, broken, "package a\n\n// @Names\ntype C struct{\n")
	generated := filepath.Join(dir, "model_names.go")
	writeTestFile(t, generated, "package a\n\n// @Names\ntype D struct{}\n")

	runner.handleEvent(fsnotify.Event{Name: plain, Op: fsnotify.Write})
	runner.handleEvent(fsnotify.Event{Name: broken, Op: fsnotify.Write})
	runner.handleEvent(fsnotify.Event{Name: generated, Op: fsnotify.Write})
	runner.handleEvent(fsnotify.Event{Name: annotated, Op: fsnotify.Remove})
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())

	runner.handleEvent(fsnotify.Event{Name: annotated, Op: fsnotify.Write})
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}
