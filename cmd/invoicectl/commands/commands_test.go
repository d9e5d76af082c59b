package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evcomfg/invoice-backend/internal/services"
)

const sampleOrder = `{
	"customerName": "Dana Reyes",
	"billingAddress1": "12 Elm St",
	"billingCity": "Dayton",
	"billingState": "OH",
	"billingZipCode": "45402",
	"cartModel": "Lifted 6",
	"basePrice": 10000,
	"battery": "Custom 200A",
	"battery_price": 800,
	"paint": "Pearl",
	"paintPrice": 300,
	"addOns": [{"name": "Cup holder", "price": 50}, {"name": "Mirror", "price": "75"}]
}`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeOrder(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRenderWritesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "invoice.pdf")

	_, stderr, err := run(t, "", "render", "--order", writeOrder(t, sampleOrder), "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	require.Contains(t, stderr, "total 12038.81")
}

func TestRenderToStdoutFromStdin(t *testing.T) {
	stdout, _, err := run(t, sampleOrder, "render", "--order", "-", "--out", "-")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "%PDF-"))
}

func TestRenderRejectedOrderWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "invoice.pdf")
	body := strings.Replace(sampleOrder, `"cartModel": "Lifted 6",`, "", 1)

	_, _, err := run(t, "", "render", "--order", writeOrder(t, body), "--out", out)
	require.EqualError(t, err, "Missing required fields.")

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestRenderRejectNegativeFlag(t *testing.T) {
	body := strings.Replace(sampleOrder, `"paintPrice": 300`, `"paintPrice": -300`, 1)
	path := writeOrder(t, body)

	_, _, err := run(t, "", "render", "--order", path, "--out", filepath.Join(t.TempDir(), "a.pdf"))
	require.NoError(t, err)

	_, _, err = run(t, "", "render", "--order", path, "--out", filepath.Join(t.TempDir(), "b.pdf"), "--reject-negative")
	require.EqualError(t, err, "Invalid price for field paintPrice.")
}

func TestRenderRequiresOrderFlag(t *testing.T) {
	_, _, err := run(t, "", "render")
	require.Error(t, err)
}

func TestQuotePrintsBreakdown(t *testing.T) {
	stdout, _, err := run(t, "", "quote", "--order", writeOrder(t, sampleOrder))
	require.NoError(t, err)

	var view services.BreakdownView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	require.Equal(t, "11225.00", view.Subtotal)
	require.Equal(t, "813.81", view.Tax)
	require.Equal(t, "12038.81", view.Total)
	require.Len(t, view.AddOns, 2)
}

func TestQuoteInvalidPrice(t *testing.T) {
	body := strings.Replace(sampleOrder, `"basePrice": 10000`, `"basePrice": "lots"`, 1)
	_, _, err := run(t, body, "quote", "--order", "-")
	require.EqualError(t, err, "Invalid price for field basePrice.")
}

func TestVerboseLogsEvents(t *testing.T) {
	_, stderr, err := run(t, sampleOrder, "-v", "quote", "--order", "-")
	require.NoError(t, err)
	require.Contains(t, stderr, "invoice.quoted")
}
