package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/the-budget-must-balance/internal/backup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportCommands(t *testing.T) {
	src := newTestCLI(t)
	src.seedMarch()
	src.mustRun("init", "--name", "Sam", "--budget", "800")
	src.mustRun("theme", "set", "dark")

	path := filepath.Join(t.TempDir(), "backup.json")
	out := src.mustRun("export", "--output", path)
	assert.Contains(t, out, "Exported 3 expenses to "+path)

	var raw map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 800.0, raw["budget"])
	assert.Equal(t, "dark", raw["theme"])
	assert.Equal(t, "Sam", raw["userName"])
	assert.Equal(t, "2024-03-15T10:30:00.000Z", raw["exportDate"])

	dst := newTestCLI(t)
	dst.mustRun("add", "--amount", "1", "--category", "other", "-m", "Replaced", "--date", "2024-01-01")

	out, err = dst.run("y\n", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Replace all stored expenses with the 3")
	assert.Contains(t, out, "Data imported successfully!")

	assert.Equal(t, src.expenses(), dst.expenses())
	assert.Contains(t, dst.mustRun("budget"), "£800.00")
	assert.Contains(t, dst.mustRun("theme"), "dark")
}

func TestExportCommand_DefaultFileName(t *testing.T) {
	c := newTestCLI(t)
	chdir(t, t.TempDir())

	out := c.mustRun("export")
	assert.Contains(t, out, "budget-backup-2024-03-15.json")
	assert.FileExists(t, "budget-backup-2024-03-15.json")
}

func TestExportCommand_Stdout(t *testing.T) {
	c := newTestCLI(t)
	c.seedMarch()

	snapshot, err := backup.Decode(strings.NewReader(c.mustRun("export", "-o", "-")))
	require.NoError(t, err)
	assert.Len(t, snapshot.Expenses, 3)
}

func TestImportCommand_Canceled(t *testing.T) {
	src := newTestCLI(t)
	src.seedMarch()
	path := filepath.Join(t.TempDir(), "backup.json")
	src.mustRun("export", "--output", path)

	dst := newTestCLI(t)
	out, err := dst.run("no\n", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Import canceled.")
	assert.Empty(t, dst.expenses())
}

func TestImportCommand_PartialBackupNeedsNoConfirmation(t *testing.T) {
	c := newTestCLI(t)
	c.seedMarch()

	path := filepath.Join(t.TempDir(), "partial.json")
	writeFile(t, path, `{"budget": 420, "userName": "Robin"}`)

	c.mustRun("import", path)

	assert.Len(t, c.expenses(), 3, "absent fields are left as they are")
	assert.Contains(t, c.mustRun("budget"), "£420.00")
}

func TestImportCommand_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "not json", content: "expenses: []", wantMsg: backup.InvalidFormatMessage},
		{name: "not an object", content: `[1, 2]`, wantMsg: backup.InvalidFormatMessage},
		{name: "expenses not a list", content: `{"expenses": {"id": "x"}}`, wantMsg: backup.InvalidFormatMessage},
		{
			name:    "invalid expense",
			content: `{"expenses": [{"id": "e1", "amount": -3, "category": "food", "description": "x", "date": "2024-03-01"}]}`,
			wantMsg: backup.ImportFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			c.seedMarch()

			path := filepath.Join(t.TempDir(), "bad.json")
			writeFile(t, path, tt.content)

			_, err := c.run("", "import", "--force", path)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, userMessage(err))
			assert.Len(t, c.expenses(), 3, "a failed import changes nothing")
		})
	}
}

func TestImportCommand_MissingFile(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.run("", "import", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, userMessage(err), "Cannot open")
}

func TestResetCommand(t *testing.T) {
	c := newTestCLI(t)
	c.seedMarch()
	c.mustRun("budget", "set", "900")

	out, err := c.run("\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset canceled.")
	assert.Len(t, c.expenses(), 3)

	out = c.mustRun("reset", "--force")
	assert.Contains(t, out, "All data cleared.")
	assert.Empty(t, c.expenses())
	assert.Contains(t, c.mustRun("budget"), "£500.00")
}
