package statement

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/kestrelworks/sift/internal/model"
)

// OFXParser parses OFX/QFX statement downloads.
type OFXParser struct{}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in bank-produced OFX files:
// leading whitespace, mixed-case SEVERITY values, and SGML-style tags missing
// their closing bracket.
func (p *OFXParser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// Parse implements Parser.
func (p *OFXParser) Parse(path string) ([]*model.Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement %s: %w", path, err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement %s: %w", path, err)
	}

	var entries []*model.Entry
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, convertOFX(ofxTx))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, convertOFX(ofxTx))
			}
		}
	}

	slog.Info("Parsed OFX statement", "path", path, "transactions", len(entries))
	return entries, nil
}

// convertOFX maps one OFX transaction to an entry. The description prefers
// the PAYEE name when present, falling back to NAME then MEMO.
func convertOFX(ofxTx ofxgo.Transaction) *model.Entry {
	description := string(ofxTx.Name)
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		description = string(ofxTx.Payee.Name)
	}
	if description == "" {
		description = string(ofxTx.Memo)
	}

	return &model.Entry{
		Transaction: model.Transaction{
			Date:        model.DateOf(ofxTx.DtPosted.Time),
			Amount:      decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2),
			Description: strings.TrimSpace(description),
		},
		Origin: model.OriginStatement,
	}
}
