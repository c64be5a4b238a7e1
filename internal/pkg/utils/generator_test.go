package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIdempotencyToken_Deterministic(t *testing.T) {
	first := DeriveIdempotencyToken("INV-42", "T1")
	second := DeriveIdempotencyToken("INV-42", "T1")

	assert.Equal(t, first, second)
}

func TestDeriveIdempotencyToken_DistinctPerRequest(t *testing.T) {
	base := DeriveIdempotencyToken("INV-42", "T1")

	assert.NotEqual(t, base, DeriveIdempotencyToken("INV-42", "T2"))
	assert.NotEqual(t, base, DeriveIdempotencyToken("INV-43", "T1"))
}

func TestGenerateRequestID_Prefixed(t *testing.T) {
	requestID := GenerateRequestID()

	assert.True(t, strings.HasPrefix(requestID, "STLMT_SVC_"))
	assert.NotEqual(t, requestID, GenerateRequestID())
}
