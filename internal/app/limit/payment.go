package limit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// PaymentVerifier confirms a payment token and returns the message shown to
// the user. The actual payment provider sits behind this contract.
type PaymentVerifier interface {
	Verify(ctx context.Context, chatID int64, token string) (string, error)
}

// TokenVerifier accepts activation tokens from a configured list. Each token
// is single-use per process.
type TokenVerifier struct {
	mu     sync.Mutex
	tokens map[string]bool
	logger *zap.Logger
}

func NewTokenVerifier(tokens []string, logger *zap.Logger) *TokenVerifier {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return &TokenVerifier{tokens: set, logger: logger}
}

func (v *TokenVerifier) Verify(ctx context.Context, chatID int64, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "Please attach your payment token, e.g. /vip <token>.", nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.tokens[token] {
		v.logger.Warn("payment token rejected", zap.Int64("chat", chatID))
		return "Sorry, that token was not recognized.", nil
	}
	delete(v.tokens, token)
	v.logger.Info("payment token accepted", zap.Int64("chat", chatID))
	return fmt.Sprintf("Thank you! VIP is now active for your account (%d).", chatID), nil
}
