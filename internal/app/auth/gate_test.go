package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
)

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) IsParticipant(ctx context.Context, group string, userID int64) (bool, error) {
	args := m.Called(ctx, group, userID)
	return args.Bool(0), args.Error(1)
}

func TestCheck_PrivateChatWithoutRestrictions(t *testing.T) {
	gate := NewGate(nil, "", false, nil, zap.NewNop())

	d := gate.Check(context.Background(), &model.JobRequest{ChatID: 1, UserID: 1, IsPrivate: true, Text: "https://example.com"})

	assert.Equal(t, Allow, d.Verdict)
}

func TestCheck_GroupChatterIsSilentlyDropped(t *testing.T) {
	gate := NewGate(nil, "", false, nil, zap.NewNop())

	tests := []struct {
		name string
		text string
		want Verdict
	}{
		{"plain chatter", "what a great video", DenySilent},
		{"bare link without prefix", "https://example.com/v/1", DenySilent},
		{"prefixed invocation", "/ytdl https://example.com/v/1", Allow},
		{"uppercase prefix", "/YTDL https://example.com/v/1", Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := gate.Check(context.Background(), &model.JobRequest{ChatID: -5, UserID: 1, IsPrivate: false, Text: tt.text})
			assert.Equal(t, tt.want, d.Verdict)
			assert.Empty(t, d.Reply)
		})
	}
}

func TestCheck_AllowList(t *testing.T) {
	gate := NewGate([]int64{10, 20}, "", false, nil, zap.NewNop())

	allowed := gate.Check(context.Background(), &model.JobRequest{ChatID: 10, UserID: 10, IsPrivate: true, Text: "https://example.com"})
	assert.Equal(t, Allow, allowed.Verdict)

	denied := gate.Check(context.Background(), &model.JobRequest{ChatID: 30, UserID: 30, IsPrivate: true, Text: "https://example.com"})
	assert.Equal(t, Deny, denied.Verdict)
	assert.Equal(t, textPrivateBot, denied.Reply)
}

func TestCheck_MembershipRequired(t *testing.T) {
	checker := new(mockChecker)
	checker.On("IsParticipant", mock.Anything, "@chan", int64(1)).Return(true, nil)
	checker.On("IsParticipant", mock.Anything, "@chan", int64(2)).Return(false, nil)

	gate := NewGate(nil, "@chan", false, checker, zap.NewNop())

	member := gate.Check(context.Background(), &model.JobRequest{ChatID: 1, UserID: 1, IsPrivate: true, Text: "https://example.com"})
	assert.Equal(t, Allow, member.Verdict)

	outsider := gate.Check(context.Background(), &model.JobRequest{ChatID: 2, UserID: 2, IsPrivate: true, Text: "https://example.com"})
	assert.Equal(t, Deny, outsider.Verdict)
	assert.Equal(t, textMembership, outsider.Reply)

	checker.AssertExpectations(t)
}

func TestCheck_MembershipQueryFailure(t *testing.T) {
	checker := new(mockChecker)
	checker.On("IsParticipant", mock.Anything, "@chan", int64(1)).Return(false, errors.New("api timeout"))

	t.Run("fail closed by default", func(t *testing.T) {
		gate := NewGate(nil, "@chan", false, checker, zap.NewNop())
		d := gate.Check(context.Background(), &model.JobRequest{ChatID: 1, UserID: 1, IsPrivate: true, Text: "https://example.com"})
		assert.Equal(t, Deny, d.Verdict)
		assert.Equal(t, textMemberFail, d.Reply)
	})

	t.Run("fail open when configured", func(t *testing.T) {
		gate := NewGate(nil, "@chan", true, checker, zap.NewNop())
		d := gate.Check(context.Background(), &model.JobRequest{ChatID: 1, UserID: 1, IsPrivate: true, Text: "https://example.com"})
		assert.Equal(t, Allow, d.Verdict)
	})
}

func TestCheck_AllowListBeforeMembership(t *testing.T) {
	checker := new(mockChecker)
	gate := NewGate([]int64{10}, "@chan", false, checker, zap.NewNop())

	d := gate.Check(context.Background(), &model.JobRequest{ChatID: 99, UserID: 99, IsPrivate: true, Text: "https://example.com"})

	assert.Equal(t, Deny, d.Verdict)
	checker.AssertNotCalled(t, "IsParticipant", mock.Anything, mock.Anything, mock.Anything)
}
