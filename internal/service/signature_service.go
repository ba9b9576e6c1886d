package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// alertSignaturePrefix names the algorithm in the X-Presale-Signature header.
const alertSignaturePrefix = "sha256="

// HMACSignatureService signs operator alert deliveries with HMAC-SHA256.
type HMACSignatureService struct{}

func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

// Sign returns "sha256=" followed by the lowercase hex MAC of payload.
func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	return alertSignaturePrefix + hex.EncodeToString(alertMAC(secretKey, payload))
}

// Verify accepts the signature with or without its algorithm prefix and
// compares MACs in constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	got, err := hex.DecodeString(strings.TrimPrefix(signature, alertSignaturePrefix))
	if err != nil {
		return false
	}
	return hmac.Equal(alertMAC(secretKey, payload), got)
}

func alertMAC(secretKey, payload string) []byte {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// AlertSigningPayload is the string signed for an alert delivery: "<unix>.<body>".
// Binding the timestamp lets receivers reject replayed deliveries.
func AlertSigningPayload(timestamp int64, body []byte) string {
	return strconv.FormatInt(timestamp, 10) + "." + string(body)
}
