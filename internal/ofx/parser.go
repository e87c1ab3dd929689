// Package ofx converts OFX/QFX bank statements into ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/mybudget/mybudget/internal/model"
)

// Entry is one statement line ready to become a ledger transaction. The
// amount is always positive; the sign of the original statement amount
// decides the type (debits become expenses, credits become income).
type Entry struct {
	Date        time.Time
	Description string
	Type        model.TransactionType
	Amount      float64
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX statement and returns its entries. Zero-amount
// lines are skipped; the ledger rejects them anyway.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entry, ok := p.convertTransaction(ofxTx)
				if !ok {
					skipped++
					continue
				}
				entries = append(entries, entry)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entry, ok := p.convertTransaction(ofxTx)
				if !ok {
					skipped++
					continue
				}
				entries = append(entries, entry)
			}
		}
	}

	slog.Info("parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts,
		"skipped", skipped)

	return entries, nil
}

// convertTransaction maps one OFX transaction to an entry. Returns false for
// zero-amount lines.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (Entry, bool) {
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount == 0 {
		return Entry{}, false
	}

	// OFX uses negative amounts for debits
	typ := model.TypeIncome
	if amount < 0 {
		typ = model.TypeExpense
		amount = -amount
	}

	return Entry{
		Date:        model.DateOnly(ofxTx.DtPosted.Time),
		Description: p.extractDescription(ofxTx),
		Type:        typ,
		Amount:      amount,
	}, true
}

// extractDescription picks the most useful label available on the statement
// line.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if name != "" {
		return name
	}

	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" {
		return memo
	}

	return "transaction importée"
}
