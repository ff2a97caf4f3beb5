package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
)

// InvocationPrefix is the command that addresses the bot in group chats.
const InvocationPrefix = "/ytdl"

type Verdict int

const (
	// Allow lets the request proceed. No side effect.
	Allow Verdict = iota
	// DenySilent drops the request without replying (group chatter).
	DenySilent
	// Deny stops the request; Reply carries the reason for the user.
	Deny
)

// Decision is the typed outcome of the gate. The caller owns sending Reply.
type Decision struct {
	Verdict Verdict
	Reply   string
}

// MembershipChecker answers whether a user belongs to a group or channel.
type MembershipChecker interface {
	IsParticipant(ctx context.Context, group string, userID int64) (bool, error)
}

const (
	textPrivateBot = "This bot is for private use. Contact the owner if you believe you should have access."
	textMembership = "You need to join the required group/channel before using this bot."
	textMemberFail = "Could not verify your membership right now. Please try again later."
)

// Gate decides allow/deny before any quota or download work happens:
// chat-type/prefix check, then allow-list, then group membership.
type Gate struct {
	allowed    map[int64]struct{}
	membership string
	failOpen   bool
	checker    MembershipChecker
	logger     *zap.Logger
}

func NewGate(authorized []int64, membership string, failOpen bool, checker MembershipChecker, logger *zap.Logger) *Gate {
	allowed := make(map[int64]struct{}, len(authorized))
	for _, id := range authorized {
		allowed[id] = struct{}{}
	}
	return &Gate{
		allowed:    allowed,
		membership: membership,
		failOpen:   failOpen,
		checker:    checker,
		logger:     logger,
	}
}

func (g *Gate) Check(ctx context.Context, req *model.JobRequest) Decision {
	// In groups and channels the bot only reacts when explicitly addressed.
	if !req.IsPrivate && !strings.HasPrefix(strings.ToLower(req.Text), InvocationPrefix) {
		g.logger.Debug("ignoring group chatter", zap.Int64("chat", req.ChatID))
		return Decision{Verdict: DenySilent}
	}

	// An empty allow-list means open access.
	if len(g.allowed) > 0 {
		if _, ok := g.allowed[req.UserID]; !ok {
			g.logger.Warn("user not in allow-list", zap.Int64("user", req.UserID))
			return Decision{Verdict: Deny, Reply: textPrivateBot}
		}
	}

	if g.membership != "" {
		member, err := g.checker.IsParticipant(ctx, g.membership, req.UserID)
		if err != nil {
			g.logger.Error("membership query failed",
				zap.Int64("user", req.UserID),
				zap.String("group", g.membership),
				zap.Error(err))
			if g.failOpen {
				return Decision{Verdict: Allow}
			}
			return Decision{Verdict: Deny, Reply: textMemberFail}
		}
		if !member {
			g.logger.Warn("user is not a member",
				zap.Int64("user", req.UserID),
				zap.String("group", g.membership))
			return Decision{Verdict: Deny, Reply: textMembership}
		}
		g.logger.Info("membership check passed",
			zap.Int64("user", req.UserID),
			zap.String("group", g.membership))
	}

	return Decision{Verdict: Allow}
}
