package payments

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FaizwebWorks/ambika-backend/models"
)

func TestBuildUPILink(t *testing.T) {
	link := BuildUPILink("merchant@upi", "Ambika International", 1380, "TXN_123", "Payment for Order #AMB25001")

	assert.True(t, strings.HasPrefix(link, "upi://pay?"))
	assert.Contains(t, link, "pa=merchant@upi")
	assert.Contains(t, link, "am=1380.00")
	assert.Contains(t, link, "tr=TXN_123")

	// Spaces in names and descriptions are query-escaped.
	assert.Contains(t, link, "pn=Ambika+International")
	assert.NotContains(t, link, "pn=Ambika International")
	assert.Contains(t, link, "tn=Payment+for+Order+%23AMB25001")
}

func TestBuildUPILinkAmountFormatting(t *testing.T) {
	link := BuildUPILink("m@upi", "M", 99.9, "T", "d")
	assert.Contains(t, link, "am=99.90")

	link = BuildUPILink("m@upi", "M", 0.5, "T", "d")
	assert.Contains(t, link, "am=0.50")
}

func TestBuildUPICollectLink(t *testing.T) {
	link := BuildUPICollectLink("payer@upi", "Ambika International", 2500, "COLLECT_1", "Invoice 42")

	assert.True(t, strings.HasPrefix(link, "upi://collect?"))
	assert.Contains(t, link, "pa=payer@upi")
	assert.Contains(t, link, "am=2500.00")
	assert.Contains(t, link, "tr=COLLECT_1")
}

func TestUPIConfirm(t *testing.T) {
	g := NewUPIGateway("merchant@upi", "Ambika International")
	ctx := context.Background()

	conf, err := g.Confirm(ctx, &models.Order{}, ConfirmRequest{
		TransactionId:    "TXN_1",
		UPITransactionId: "423199887766",
	})
	require.NoError(t, err)
	assert.True(t, conf.Succeeded)
	assert.True(t, conf.Manual)
	assert.Equal(t, "TXN_1", conf.TransactionId)
	assert.Contains(t, conf.Note, "423199887766")
}

func TestUPIConfirmFallsBackToUPIReference(t *testing.T) {
	g := NewUPIGateway("merchant@upi", "Ambika International")

	conf, err := g.Confirm(context.Background(), &models.Order{}, ConfirmRequest{
		UPITransactionId: "423100112233",
	})
	require.NoError(t, err)
	assert.Equal(t, "423100112233", conf.TransactionId)
}

func TestUPIConfirmRequiresReference(t *testing.T) {
	g := NewUPIGateway("merchant@upi", "Ambika International")

	_, err := g.Confirm(context.Background(), &models.Order{}, ConfirmRequest{TransactionId: "TXN_1"})
	assert.Error(t, err)
}

func TestEncodeQRDataURL(t *testing.T) {
	out, err := EncodeQRDataURL("upi://pay?pa=merchant@upi&am=100.00")
	require.NoError(t, err)

	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(out, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, prefix))
	require.NoError(t, err)

	// PNG magic bytes.
	require.True(t, len(raw) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, raw[:8])
}
