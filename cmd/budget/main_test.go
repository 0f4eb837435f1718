package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/ledger"
	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCLI runs commands against one database file with a fixed clock.
type testCLI struct {
	t      *testing.T
	ids    func(time.Time) string
	dbPath string
	now    time.Time
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	return &testCLI{
		t:      t,
		ids:    testutil.SequentialIDs(),
		dbPath: filepath.Join(t.TempDir(), "budget.db"),
		now:    testutil.FixedNow,
	}
}

// run executes args with stdin as input and returns what was written to stdout.
func (c *testCLI) run(stdin string, args ...string) (string, error) {
	c.t.Helper()

	a := newApp()
	a.now = func() time.Time { return c.now }
	a.ledgerOpts = []ledger.Option{ledger.WithIDGenerator(c.ids)}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--db", c.dbPath, "--log-level", "error"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (c *testCLI) mustRun(args ...string) string {
	c.t.Helper()

	out, err := c.run("", args...)
	require.NoError(c.t, err, "budget %s", strings.Join(args, " "))
	return out
}

// expenses lists every stored expense through the JSON output.
func (c *testCLI) expenses() []model.Expense {
	c.t.Helper()

	var expenses []model.Expense
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun("list", "--all", "--json")), &expenses))
	return expenses
}

func (c *testCLI) seedMarch() {
	c.t.Helper()
	c.mustRun("add", "--amount", "50", "--category", "food", "-m", "Weekly groceries", "--date", "2024-03-02")
	c.mustRun("add", "--amount", "30", "--category", "food", "-m", "Takeaway", "--date", "2024-03-09")
	c.mustRun("add", "--amount", "20", "--category", "transport", "-m", "Bus pass", "--date", "2024-03-11")
}

func userMessage(err error) string {
	return common.UserMessage(err, "")
}

func TestVersionCommand(t *testing.T) {
	c := newTestCLI(t)

	out := c.mustRun("version")
	assert.Equal(t, "budget version dev\n", out)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.run("", "--log-format", "xml", "budget")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestRootCommand_ThemeFromEnvironment(t *testing.T) {
	c := newTestCLI(t)
	t.Setenv("BUDGET_DISPLAY_THEME", "dark")

	out := c.mustRun("theme")
	assert.Contains(t, out, "dark", "the configured default applies until a theme is saved")
}

func TestRootCommand_RejectFutureDatesFromConfigFile(t *testing.T) {
	c := newTestCLI(t)
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, cfg, "ledger:\n  reject_future_dates: true\n")

	_, err := c.run("", "--config", cfg, "add", "--amount", "5", "--category", "food", "-m", "Later", "--date", "2024-04-01")
	require.Error(t, err)
	assert.Contains(t, userMessage(err), "in the future")

	_, err = c.run("", "--config", cfg, "add", "--amount", "5", "--category", "food", "-m", "Today", "--date", "2024-03-15")
	require.NoError(t, err)
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantYear  int
		wantMonth time.Month
		wantErr   bool
	}{
		{name: "empty is the current month", value: "", wantYear: 2024, wantMonth: time.March},
		{name: "explicit month", value: "2023-11", wantYear: 2023, wantMonth: time.November},
		{name: "surrounding space", value: " 2024-01 ", wantYear: 2024, wantMonth: time.January},
		{name: "full date", value: "2024-01-05", wantErr: true},
		{name: "month out of range", value: "2024-13", wantErr: true},
		{name: "garbage", value: "march", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, month, err := parseMonth(tt.value, testutil.FixedNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, userMessage(err), "use YYYY-MM")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, year)
			assert.Equal(t, tt.wantMonth, month)
		})
	}
}
