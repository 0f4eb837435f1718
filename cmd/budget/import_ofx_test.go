package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/ofx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stmtTxn struct {
	posted string
	amount string
	fitID  string
	name   string
}

// bankStatement renders an SGML checking account statement.
func bankStatement(account string, txns ...stmtTxn) string {
	var b strings.Builder
	b.WriteString(`OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>GBP
<BANKACCTFROM>
<BANKID>123456789
`)
	fmt.Fprintf(&b, "<ACCTID>%s\n", account)
	b.WriteString(`<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240331120000[0:GMT]
`)
	for _, tx := range txns {
		trnType := "DEBIT"
		if !strings.HasPrefix(tx.amount, "-") {
			trnType = "CREDIT"
		}
		fmt.Fprintf(&b, "<STMTTRN>\n<TRNTYPE>%s\n<DTPOSTED>%s120000[0:GMT]\n<TRNAMT>%s\n<FITID>%s\n<NAME>%s\n</STMTTRN>\n",
			trnType, tx.posted, tx.amount, tx.fitID, tx.name)
	}
	b.WriteString(`</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240331120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`)
	return b.String()
}

// writeStatements writes three overlapping statements: four distinct debits,
// one repeated across files and one credit.
func writeStatements(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "jan2024.qfx"), bankStatement("1234567890",
		stmtTxn{"20240115", "-25.50", "JAN01", "STARBUCKS"},
	))
	writeFile(t, filepath.Join(dir, "feb2024.qfx"), bankStatement("1234567890",
		stmtTxn{"20240215", "-25.50", "FEB01", "STARBUCKS"},
		stmtTxn{"20240220", "-100.00", "FEB02", "WHOLE FOODS"},
		stmtTxn{"20240228", "1500.00", "FEB03", "PAYROLL"},
	))
	writeFile(t, filepath.Join(dir, "feb_mar2024.qfx"), bankStatement("1234567890",
		stmtTxn{"20240215", "-25.50", "FEB01", "STARBUCKS"},
		stmtTxn{"20240301", "-50.00", "MAR01", "TARGET"},
	))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestImportOFXCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := writeStatements(t)

	out := c.mustRun("import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "feb2024.qfx: 2 debits, 1 credits skipped")
	assert.Contains(t, out, "5 transactions found, 1 duplicates across files, 0 already in the ledger")
	assert.Contains(t, out, "Imported 4 expenses")

	expenses := c.expenses()
	require.Len(t, expenses, 4)

	type row struct {
		date        model.Date
		category    string
		description string
		amount      model.Amount
	}
	var got []row
	for _, e := range expenses {
		got = append(got, row{e.Date, e.Category, e.Description, e.Amount})
	}
	sort.Slice(got, func(i, j int) bool { return got[i].date < got[j].date })

	assert.Equal(t, []row{
		{"2024-01-15", "food", "STARBUCKS", 25.50},
		{"2024-02-15", "food", "STARBUCKS", 25.50},
		{"2024-02-20", "food", "WHOLE FOODS", 100},
		{"2024-03-01", "shopping", "TARGET", 50},
	}, got)
}

func TestImportOFXCommand_SkipsExpensesAlreadyStored(t *testing.T) {
	c := newTestCLI(t)
	dir := writeStatements(t)

	c.mustRun("import-ofx", filepath.Join(dir, "jan2024.qfx"))
	require.Len(t, c.expenses(), 1)

	out := c.mustRun("import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "1 already in the ledger")
	assert.Contains(t, out, "Imported 3 expenses")
	assert.Len(t, c.expenses(), 4)

	out = c.mustRun("import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "Nothing new to import.")
	assert.Len(t, c.expenses(), 4)
}

func TestImportOFXCommand_DryRun(t *testing.T) {
	c := newTestCLI(t)
	dir := writeStatements(t)

	out := c.mustRun("import-ofx", "--dry-run", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "WHOLE FOODS")
	assert.Contains(t, out, "£100.00")
	assert.Contains(t, out, "Dry run: 4 expenses would be imported.")
	assert.Empty(t, c.expenses())
}

func TestImportOFXCommand_BadFileDoesNotStopOthers(t *testing.T) {
	c := newTestCLI(t)
	dir := writeStatements(t)
	writeFile(t, filepath.Join(dir, "broken.qfx"), "this is not a statement")

	out := c.mustRun("import-ofx", filepath.Join(dir, "*.qfx"))
	assert.Contains(t, out, "broken.qfx")
	assert.Contains(t, out, "Imported 4 expenses")
}

func TestImportOFXCommand_NoFiles(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.run("", "import-ofx", filepath.Join(t.TempDir(), "*.ofx"))
	require.Error(t, err)
	assert.Equal(t, "No files found to import", userMessage(err))
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"jan.qfx", "feb.qfx", "data.csv"} {
		writeFile(t, filepath.Join(dir, name), "test")
	}

	tests := []struct {
		name     string
		patterns []string
		expected int
	}{
		{name: "glob", patterns: []string{filepath.Join(dir, "*.qfx")}, expected: 2},
		{name: "literal path", patterns: []string{filepath.Join(dir, "data.csv")}, expected: 1},
		{name: "several patterns", patterns: []string{filepath.Join(dir, "jan*"), filepath.Join(dir, "*.csv")}, expected: 2},
		{name: "missing entries are skipped", patterns: []string{filepath.Join(dir, "nope.qfx"), filepath.Join(dir, "feb.qfx")}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := expandFiles(tt.patterns)
			require.NoError(t, err)
			assert.Len(t, files, tt.expected)
		})
	}
}

func TestWithoutExisting(t *testing.T) {
	txn := func(date model.Date, amount float64, description string) ofx.Transaction {
		return ofx.Transaction{ExpenseDraft: model.ExpenseDraft{Date: date, Amount: amount, Description: description}}
	}
	existing := []model.Expense{
		{Date: "2024-02-15", Amount: 25.5, Description: "Starbucks"},
	}

	fresh := withoutExisting([]ofx.Transaction{
		txn("2024-02-15", 25.50, "STARBUCKS"),
		txn("2024-02-15", 25.51, "STARBUCKS"),
		txn("2024-02-16", 25.50, "STARBUCKS"),
	}, existing)

	require.Len(t, fresh, 2)
	assert.InDelta(t, 25.51, fresh[0].Amount, 0.001)
	assert.Equal(t, model.Date("2024-02-16"), fresh[1].Date)
}
