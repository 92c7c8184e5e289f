package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPurchase(t *testing.T) {
	before := testutil.ToFloat64(purchases.WithLabelValues("committed"))
	volBefore := testutil.ToFloat64(purchaseVolume)

	RecordPurchase("committed", 2000)
	RecordPurchase("insufficient_funds", 2000)

	assert.Equal(t, before+1, testutil.ToFloat64(purchases.WithLabelValues("committed")))
	assert.Equal(t, volBefore+2000, testutil.ToFloat64(purchaseVolume))
}

func TestRecordPurchase_FailedOutcomeDoesNotAddVolume(t *testing.T) {
	volBefore := testutil.ToFloat64(purchaseVolume)

	RecordPurchase("self_purchase", 99999)

	assert.Equal(t, volBefore, testutil.ToFloat64(purchaseVolume))
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/api/v1/purchases", "200"))

	ObserveHTTP("POST", "/api/v1/purchases", "200", 0.042)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/api/v1/purchases", "200")))
}
