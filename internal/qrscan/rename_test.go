// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRenameToPayload(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.png", "one")

	got, err := RenameToPayload(dir, "1.png", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello_world.png", got)
	assert.Equal(t, "one", readFile(t, dir, "hello_world.png"))
	assert.NoFileExists(t, filepath.Join(dir, "1.png"))
}

func TestRenameToPayloadCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "first")
	touch(t, dir, "b.png", "second")
	touch(t, dir, "c.png", "third")

	got, err := RenameToPayload(dir, "a.png", "dup")
	require.NoError(t, err)
	assert.Equal(t, "dup.png", got)

	got, err = RenameToPayload(dir, "b.png", "dup")
	require.NoError(t, err)
	assert.Equal(t, "dup_1.png", got)

	got, err = RenameToPayload(dir, "c.png", "dup")
	require.NoError(t, err)
	assert.Equal(t, "dup_2.png", got)

	assert.Equal(t, "first", readFile(t, dir, "dup.png"))
	assert.Equal(t, "second", readFile(t, dir, "dup_1.png"))
	assert.Equal(t, "third", readFile(t, dir, "dup_2.png"))
}

func TestRenameToPayloadAlreadyNamed(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "hello.png", "x")
	touch(t, dir, "hello_1.png", "y")

	got, err := RenameToPayload(dir, "hello.png", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello.png", got)

	// A file already carrying a suffix keeps it on rescan.
	got, err = RenameToPayload(dir, "hello_1.png", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello_1.png", got)

	assert.Equal(t, "x", readFile(t, dir, "hello.png"))
	assert.Equal(t, "y", readFile(t, dir, "hello_1.png"))
}

func TestRenameToPayloadEmptyName(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "x")

	_, err := RenameToPayload(dir, "a.png", `???`)
	require.Error(t, err)
	assert.True(t, IsRenameError(err))
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.FileExists(t, filepath.Join(dir, "a.png"))
}

func TestRenameToPayloadRenameFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png", "x")

	boom := errors.New("device busy")
	orig := renameFunc
	renameFunc = func(string, string) error { return boom }
	t.Cleanup(func() { renameFunc = orig })

	_, err := RenameToPayload(dir, "a.png", "target")
	require.Error(t, err)

	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "a.png", re.From)
	assert.Equal(t, "target.png", re.To)
	assert.ErrorIs(t, err, boom)
}
