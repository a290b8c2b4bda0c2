//go:build unit
// +build unit

package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDirWritable(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, IsDirWritable(dir))
}

func TestIsDirWritableMissing(t *testing.T) {
	err := IsDirWritable(t.TempDir() + "/does-not-exist")
	assert.Error(t, err)
}

func TestIsDirWritableNotADir(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-dir")
	assert.NoError(t, err)
	defer f.Close()

	err = IsDirWritable(f.Name())
	assert.Error(t, err)
}

func TestReadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/setting.toml"
	assert.NoError(t, os.WriteFile(path, []byte("n = 4\n"), 0o644))

	content, err := ReadSettingsFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "n = 4\n", content)
}

func TestReadSettingsFileMissing(t *testing.T) {
	_, err := ReadSettingsFile(t.TempDir() + "/missing.toml")
	assert.Error(t, err)
}

func TestPlainJsonString(t *testing.T) {
	jsonString := "{\n  \"name\": \"wako\",\n  \"qubits\"}"
	expected := "{\"name\":\"wako\",\"qubits\"}"

	actual := PlainJsonString(jsonString)
	assert.Equal(t, expected, actual)
}
