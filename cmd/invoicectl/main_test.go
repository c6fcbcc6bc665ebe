package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"invoicepro/builder"
	"invoicepro/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"invoicectl"}, args...))
	return out.String(), err
}

func TestWords(t *testing.T) {
	out, err := runApp(t, "words", "1180.25")
	require.NoError(t, err)
	assert.Equal(t, "₹1,180.25\nOne Thousand One Hundred Eighty Rupees and Twenty Five Paise Only.\n", out)

	_, err = runApp(t, "words", "abc")
	assert.Error(t, err)
}

func TestFilenameBuildAndParse(t *testing.T) {
	out, err := runApp(t, "filename", "build", "--kind", "quotation", "--date", "2025-07-14", "--seq", "12", "--phone", "+91 98765 43210")
	require.NoError(t, err)
	assert.Equal(t, "QUO_20250714_000012_919876543210.pdf\n", out)

	out, err = runApp(t, "filename", "parse", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "kind=quotation date=2025-07-14 seq=12 phone=919876543210\n", out)

	_, err = runApp(t, "filename", "parse", "notes.txt")
	assert.Error(t, err)
}

func TestNextFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"INV_20250701_000005_919876543210.pdf",
		"INV_20250702_000003_919876543210.pdf",
		"QUO_20250702_000009_919876543210.pdf",
		"readme.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	out, err := runApp(t, "next", dir)
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)

	out, err = runApp(t, "next", "--kind", "quotation", dir)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestRenderForm(t *testing.T) {
	dir := t.TempDir()
	f := builder.NewForm(models.Invoice, time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC))
	f.Customer.Name = "Acme Traders"
	f.Customer.Phone = builder.Phone{CountryCode: "91", Local: "9876543210"}
	f.Items = []models.LineItem{{Description: "Service", Rate: decimal.NewFromInt(1000), Qty: decimal.NewFromInt(1)}}
	raw, err := json.Marshal(f)
	require.NoError(t, err)
	formPath := filepath.Join(dir, "form.json")
	require.NoError(t, os.WriteFile(formPath, raw, 0o600))

	pdfPath := filepath.Join(dir, "out.pdf")
	out, err := runApp(t, "render", "--seq", "4", "-o", pdfPath, formPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice INV-202507-004")

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	f.Customer.Name = ""
	raw, _ = json.Marshal(f)
	require.NoError(t, os.WriteFile(formPath, raw, 0o600))
	_, err = runApp(t, "render", "-o", pdfPath, formPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please provide a valid customer name.")
}
