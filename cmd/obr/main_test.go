package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/obr/internal/core/domain"
)

const index = `<repository>
  <resource id="org.example.api/1.0.0" symbolicname="org.example.api" uri="api.jar" version="1.0.0"/>
</repository>
`

func setupRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.xml"), []byte(index), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.jar"), []byte("jar"), domain.FilePerm))
	config := "locations:\n  - index.xml\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(config), domain.FilePerm))
	return dir
}

func TestRun(t *testing.T) {
	dir := setupRepo(t)
	configPath := filepath.Join(dir, domain.ConfigFileName)

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{name: "list", args: []string{"-c", configPath, "list"}, expectedExit: 0},
		{name: "get", args: []string{"-c", configPath, "get", "org.example.api", "latest"}, expectedExit: 0},
		{name: "help", args: []string{"--help"}, expectedExit: 0},
		{name: "version shorthand", args: []string{"-v"}, expectedExit: 0},
		{name: "verbose list", args: []string{"--verbose", "-c", configPath, "list"}, expectedExit: 0},
		{name: "unknown command", args: []string{"frobnicate"}, expectedExit: 1},
		{name: "missing config", args: []string{"-c", filepath.Join(dir, "missing.yaml"), "list"}, expectedExit: 1},
		{name: "read-only put", args: []string{"-c", configPath, "put", "x.jar"}, expectedExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedExit, run(tt.args))
		})
	}
}
