package testutil

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pulsegrid/internal/app"
	"github.com/specialistvlad/pulsegrid/internal/document"
	"github.com/specialistvlad/pulsegrid/internal/hcl"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	// Output is the raw JSON written by the app, empty after a failure.
	Output   string
	Document *document.Document
	Err      error
	App      *app.App
}

// RunIntegrationTest writes the descriptor files into a temporary directory
// and runs one compile over it, applying the given overrides.
func RunIntegrationTest(t *testing.T, files map[string]string, overrides ...string) *HarnessResult {
	t.Helper()

	// 1. Write all HCL files. Relative names may contain subdirectories.
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	// 2. Run the app the way the CLI does.
	cfg, err := app.NewConfig(app.Config{
		DescriptorPaths: []string{dir},
		Overrides:       overrides,
		LogLevel:        "debug",
		LogFormat:       "text",
	})
	require.NoError(t, err)

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	testApp := app.NewApp(out, logs, cfg, hcl.NewLoader())
	runErr := testApp.Run(context.Background())

	if os.Getenv("PULSEGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
	}

	// 3. Decode whatever was emitted.
	result := &HarnessResult{
		LogOutput: logs.String(),
		Output:    out.String(),
		Err:       runErr,
		App:       testApp,
	}
	if result.Output != "" {
		var doc document.Document
		require.NoError(t, json.Unmarshal([]byte(result.Output), &doc), "emitted output is not a document")
		result.Document = &doc
	}
	return result
}
