// Package ofx turns OFX/QFX bank and credit card statements into expense drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/aclindsa/ofxgo"
)

// DefaultDescription is used when a transaction carries no usable name.
const DefaultDescription = "Imported transaction"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Transaction is one imported debit ready to be added to the ledger.
type Transaction struct {
	FITID   string
	Account string
	Name    string
	model.ExpenseDraft
}

// Statement is the result of parsing one file.
type Statement struct {
	Accounts     []string
	Transactions []Transaction
	// Skipped counts credits and zero-amount entries, which are not expenses.
	Skipped int
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	categorizer *Categorizer
}

// NewParser creates a parser that categorizes with the default keyword rules.
func NewParser() *Parser {
	return &Parser{categorizer: NewCategorizer(DefaultRules)}
}

// NewParserWithCategorizer creates a parser with custom category rules.
func NewParserWithCategorizer(c *Categorizer) *Parser {
	return &Parser{categorizer: c}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns its debits as expense drafts.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	accounts := make(map[string]bool)
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if bank, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			account := string(bank.BankAcctFrom.AcctID)
			accounts[account] = account != ""
			p.collect(stmt, bank.BankTranList, account)
		}
	}

	for _, msg := range resp.CreditCard {
		if cc, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			account := string(cc.CCAcctFrom.AcctID)
			accounts[account] = account != ""
			p.collect(stmt, cc.BankTranList, account)
		}
	}

	for account, ok := range accounts {
		if ok {
			stmt.Accounts = append(stmt.Accounts, account)
		}
	}
	sort.Strings(stmt.Accounts)

	slog.DebugContext(ctx, "Parsed OFX file",
		"expenses", len(stmt.Transactions),
		"skipped", stmt.Skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

func (p *Parser) collect(stmt *Statement, list *ofxgo.TransactionList, account string) {
	if list == nil {
		return
	}
	for _, ofxTx := range list.Transactions {
		tx, ok := p.convertTransaction(ofxTx, account)
		if !ok {
			stmt.Skipped++
			continue
		}
		stmt.Transactions = append(stmt.Transactions, tx)
	}
}

// convertTransaction maps a debit to a Transaction. Credits and zero amounts
// report false. OFX uses negative amounts for debits.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, account string) (Transaction, bool) {
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount >= 0 {
		return Transaction{}, false
	}

	merchant := p.extractMerchantName(ofxTx)
	description := truncate(merchant, model.MaxDescriptionLength)
	if description == "" {
		description = DefaultDescription
	}

	return Transaction{
		FITID:   string(ofxTx.FiTID),
		Account: account,
		Name:    string(ofxTx.Name),
		ExpenseDraft: model.ExpenseDraft{
			Amount:      -amount,
			Category:    p.categorizer.Categorize(merchant + " " + string(ofxTx.Memo)),
			Description: description,
			Date:        model.NewDate(ofxTx.DtPosted.Time),
		},
	}, true
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// PAYEE is usually cleaner than NAME.
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
		"CARD PAYMENT TO ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}

// Dedupe drops transactions whose account and FITID were already seen,
// keeping the first occurrence. Transactions without a FITID are kept.
func Dedupe(txns []Transaction) []Transaction {
	seen := make(map[string]bool, len(txns))
	out := make([]Transaction, 0, len(txns))
	for _, tx := range txns {
		if tx.FITID != "" {
			key := tx.Account + "\x00" + tx.FITID
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, tx)
	}
	return out
}
