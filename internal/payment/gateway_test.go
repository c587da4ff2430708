package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubGatewayCharge(t *testing.T) {
	gw := &StubGateway{}
	res, err := gw.Charge(context.Background(), ChargeRequest{PurchaseID: 1, PaymentMethod: "credit_card", Amount: 19.99})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.TransactionID)

	// Every charge gets its own transaction reference
	res2, err := gw.Charge(context.Background(), ChargeRequest{PurchaseID: 2, PaymentMethod: "paypal", Amount: 9.99})
	require.NoError(t, err)
	assert.NotEqual(t, res.TransactionID, res2.TransactionID)
}

func TestStubGatewayRefundKeepsReference(t *testing.T) {
	gw := &StubGateway{}
	res, err := gw.Refund(context.Background(), "txn-abc", 10.00)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "txn-abc", res.TransactionID)
}

func TestStubGatewayHonorsCancellation(t *testing.T) {
	gw := &StubGateway{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Charge(ctx, ChargeRequest{PurchaseID: 1, Amount: 19.99})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = gw.Refund(ctx, "txn-abc", 19.99)
	assert.ErrorIs(t, err, context.Canceled)
}
