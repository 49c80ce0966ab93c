package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "array.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
block_size: 262144
mode: cauchy
parities:
  - path: /mnt/parity0/parity.bin
  - path: /mnt/parity1/parity.bin
disks:
  - name: disk1
    root: /mnt/disk1
  - name: disk2
    root: /mnt/disk2
`)
	a, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 262144, a.BlockSize)
	assert.Equal(t, "cauchy", a.Mode)
	assert.Len(t, a.Parities, 2)
	assert.Len(t, a.Disks, 2)
}

func TestLoad_RejectsBadBlockSize(t *testing.T) {
	path := writeConfig(t, "block_size: 100\nmode: cauchy\nparities:\n  - path: p\ndisks:\n  - name: d\n    root: r\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsVandermondeWithTooManyParities(t *testing.T) {
	path := writeConfig(t, `
block_size: 64
mode: vandermonde
parities:
  - path: p0
  - path: p1
  - path: p2
  - path: p3
disks:
  - name: d
    root: r
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
