// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Short-lived HMAC approval tokens for destructive actions.

package safety

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type approvalPayload struct {
	Action    string `json:"action"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Nonce     string `json:"nonce"`
}

// GenerateApprovalToken creates a signed token for an action.
// Token format: base64(payload).base64(hmac(payload, secret))
func GenerateApprovalToken(secret, action string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("approval secret is empty")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now()
	nonce, err := randomNonce()
	if err != nil {
		return "", err
	}
	payload := approvalPayload{Action: action, IssuedAt: now.Unix(), ExpiresAt: now.Add(ttl).Unix(), Nonce: nonce}
	plain, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(plain) + "." + base64.StdEncoding.EncodeToString(sign(secret, plain)), nil
}

// ValidateApprovalToken checks signature, action and expiry.
func ValidateApprovalToken(secret, action, token string) error {
	pb64, sigb64, ok := strings.Cut(token, ".")
	if !ok || strings.Contains(sigb64, ".") {
		return errors.New("invalid token format")
	}
	plain, err := base64.StdEncoding.DecodeString(pb64)
	if err != nil {
		return errors.New("invalid token payload")
	}
	if !verify(secret, plain, sigb64) {
		return errors.New("invalid token signature")
	}
	var payload approvalPayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return errors.New("invalid token payload json")
	}
	if payload.Action != action {
		return errors.New("token action mismatch")
	}
	if time.Now().Unix() > payload.ExpiresAt {
		return errors.New("token expired")
	}
	return nil
}

func sign(secret string, msg []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return mac.Sum(nil)
}

func verify(secret string, msg []byte, sigb64 string) bool {
	sig, err := base64.StdEncoding.DecodeString(sigb64)
	if err != nil {
		return false
	}
	return hmac.Equal(sig, sign(secret, msg))
}

func randomNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
