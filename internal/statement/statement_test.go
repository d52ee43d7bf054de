package statement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/sift/internal/model"
)

// Sample OFX data for testing, SGML style without closing brackets.
const sampleOFX = `OFXHEADER:100
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
<SEVERITY>Info
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
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240116120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011601
<NAME>COFFEE SHOP 123
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>1500.00
<FITID>2024011502
<NAME>ACME PAYROLL
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1474.50
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestForFile(t *testing.T) {
	p, err := ForFile("statement.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSVParser{}, p)

	p, err = ForFile("Statement.QFX")
	require.NoError(t, err)
	assert.IsType(t, &OFXParser{}, p)

	_, err = ForFile("statement.xlsx")
	assert.Error(t, err)
}

func TestCSVParse(t *testing.T) {
	path := writeFile(t, "statement.csv",
		"date,amount,description\n"+
			"2024-01-16,-25.50,COFFEE SHOP 123\n"+
			"2024-01-15,1500.00,ACME PAYROLL\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Load sorts date ascending.
	assert.Equal(t, "2024-01-15", entries[0].Date.Key())
	assert.Equal(t, "ACME PAYROLL", entries[0].Description)
	assert.False(t, entries[0].IsDebit())

	assert.Equal(t, "2024-01-16", entries[1].Date.Key())
	assert.Equal(t, "-25.50", entries[1].Amount.StringFixed(2))
	assert.True(t, entries[1].IsDebit())
	assert.Equal(t, model.OriginStatement, entries[1].Origin)
}

func TestCSVParseMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestCSVParseMalformed(t *testing.T) {
	path := writeFile(t, "statement.csv", "date,amount,description\nJan 16,-25.50,X\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestOFXParse(t *testing.T) {
	path := writeFile(t, "statement.ofx", sampleOFX)

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "2024-01-15", entries[0].Date.Key())
	assert.Equal(t, "ACME PAYROLL", entries[0].Description)
	assert.Equal(t, "1500.00", entries[0].Amount.StringFixed(2))

	assert.Equal(t, "2024-01-16", entries[1].Date.Key())
	assert.Equal(t, "COFFEE SHOP 123", entries[1].Description)
	assert.Equal(t, "-25.50", entries[1].Amount.StringFixed(2))
	assert.True(t, entries[1].IsDebit())
}

func TestCSVStableOrderWithinDate(t *testing.T) {
	path := writeFile(t, "statement.csv",
		"date,amount,description\n"+
			"2024-01-16,-25.50,FIRST\n"+
			"2024-01-16,-3.50,SECOND\n"+
			"2024-01-15,-1.00,EARLIER\n")

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "EARLIER", entries[0].Description)
	assert.Equal(t, "FIRST", entries[1].Description)
	assert.Equal(t, "SECOND", entries[2].Description)
}
