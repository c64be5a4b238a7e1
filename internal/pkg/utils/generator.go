package utils

import (
	"settlement-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

// settlementTokenNamespace is fixed so that token derivation is stable across
// deployments and restarts.
var settlementTokenNamespace = uuid.MustParse("7f9f9f14-3f6e-4b21-9b0a-2f4f25c2a9d1")

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// DeriveIdempotencyToken maps (invoiceID, clientRequestID) to a deterministic
// token, so client-side retries of the same logical settlement request dedupe
// to a single payment attempt.
func DeriveIdempotencyToken(invoiceID, clientRequestID string) string {
	return uuid.NewSHA1(settlementTokenNamespace, []byte(invoiceID+":"+clientRequestID)).String()
}
