package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	catalogPath string
	outputDir   string
}

const testCatalogXML = `<?xml version="1.0"?>
<LaunchBox>
  <Game>
    <DatabaseID>1</DatabaseID>
    <Name>Alpha Quest</Name>
    <Platform>Console A</Platform>
  </Game>
  <Game>
    <DatabaseID>2</DatabaseID>
    <Name>Beta Blaster</Name>
    <Platform>Console A</Platform>
  </Game>
  <Game>
    <DatabaseID>3</DatabaseID>
    <Name>Gamma Drive</Name>
    <Platform>Console B</Platform>
  </Game>
  <GameImage>
    <DatabaseID>1</DatabaseID>
    <Region>North America</Region>
    <Type>Box - Front</Type>
    <FileName>alpha-front.jpg</FileName>
  </GameImage>
  <GameImage>
    <DatabaseID>2</DatabaseID>
    <Region>Europe</Region>
    <Type>Box - Front</Type>
    <FileName>beta-front.png</FileName>
  </GameImage>
  <GameImage>
    <DatabaseID>3</DatabaseID>
    <Region></Region>
    <Type>Screenshot</Type>
    <FileName>gamma-shot</FileName>
  </GameImage>
</LaunchBox>
`

func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	catalogPath := filepath.Join(base, "Metadata.xml")
	if err := os.WriteFile(catalogPath, []byte(testCatalogXML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	outputDir := filepath.Join(base, "images")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
catalog_file = %q
output_dir = %q
log_dir = %q
index_dir = %q

[source]
base_url = %q
request_timeout = 5
retries = 3
retry_backoff_ms = 1

[fetch]
workers = 4

[index]
enabled = true

[logging]
format = "console"
level = "error"
`,
		catalogPath,
		outputDir,
		filepath.Join(base, "logs"),
		filepath.Join(base, "index"),
		baseURL,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:     base,
		configPath:  configPath,
		catalogPath: catalogPath,
		outputDir:   outputDir,
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func epoch() time.Time {
	return time.Unix(0, 0)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
