package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/auth"
	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/limit"
	"ytdl-bot/internal/app/model"
	"ytdl-bot/internal/app/repository"
)

type controllerFixture struct {
	transport *mockTransport
	settings  *mockSettingsStore
	metrics   *mockMetricsStore
	dl        *mockDownloader
	prober    *mockProber
	checker   *mockChecker
	archiver  *mockArchiver

	controller *Controller
}

func newControllerFixture(t *testing.T, authorized []int64, membership string) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		transport: new(mockTransport),
		settings:  new(mockSettingsStore),
		metrics:   new(mockMetricsStore),
		dl:        new(mockDownloader),
		prober:    new(mockProber),
		checker:   new(mockChecker),
		archiver:  new(mockArchiver),
	}

	logger := zap.NewNop()
	gate := auth.NewGate(authorized, membership, false, f.checker, logger)
	validator := NewValidator(f.metrics, f.transport, logger)
	orchestrator := NewOrchestrator(f.dl, f.transport, f.metrics, t.TempDir(), logger)
	quota := limit.NewQuota(f.metrics, 10, false, logger)
	formatter := NewFormatter(f.transport, f.settings, f.metrics, f.prober, quota, f.archiver, logger)
	extractor := new(mockExtractor)
	callbacks := NewCallbacks(f.transport, f.settings, f.metrics, extractor, t.TempDir(), logger)
	verifier := limit.NewTokenVerifier([]string{"tok-1"}, logger)

	f.controller = NewController(gate, validator, orchestrator, formatter, callbacks,
		f.transport, f.settings, f.metrics, quota, verifier, "admin", logger)
	return f
}

func TestHandleMessage_GroupChatterIgnoredSilently(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    -100,
		UserID:    1,
		IsPrivate: false,
		Text:      "just chatting",
	})

	f.transport.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
	f.metrics.AssertNotCalled(t, "IncrementDaily", mock.Anything, mock.Anything)
}

func TestHandleMessage_UnauthorizedUserGetsReply(t *testing.T) {
	f := newControllerFixture(t, []int64{42}, "")

	f.transport.On("SendText", int64(7), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "private use")
	}), 1).Return(bot.MessageRef{}, nil)

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    7,
		UserID:    7,
		MessageID: 1,
		IsPrivate: true,
		Text:      "https://example.com/v/1",
	})

	f.transport.AssertExpectations(t)
	f.dl.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.metrics.AssertNotCalled(t, "IncrementDaily", mock.Anything, mock.Anything)
}

func TestHandleMessage_NonMemberDenied(t *testing.T) {
	f := newControllerFixture(t, nil, "@mychannel")

	f.checker.On("IsParticipant", mock.Anything, "@mychannel", int64(7)).Return(false, nil)
	f.transport.On("SendText", int64(7), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "join")
	}), 1).Return(bot.MessageRef{}, nil)

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    7,
		UserID:    7,
		MessageID: 1,
		IsPrivate: true,
		Text:      "https://example.com/v/1",
	})

	f.checker.AssertExpectations(t)
	f.transport.AssertExpectations(t)
	f.dl.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessage_EndToEndSuccess(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	req := &model.JobRequest{
		ChatID:    7,
		UserID:    7,
		MessageID: 1,
		IsPrivate: true,
		Text:      "https://example.com/v/1",
	}
	status := bot.MessageRef{ChatID: 7, MessageID: 2}

	f.metrics.On("IncrementDaily", mock.Anything, int64(7)).Return(nil)
	f.settings.On("Get", mock.Anything, int64(7)).
		Return(model.UserSettings{ChatID: 7, Method: model.SendMethodVideo, Resolution: model.ResolutionMedium}, nil)
	f.metrics.On("Increment", mock.Anything, repository.MetricVideoRequest).Return(nil)
	f.transport.On("SendText", int64(7), textProcessing, 1).Return(status, nil)
	f.transport.On("SendChatAction", int64(7), mock.Anything).Return(nil)
	f.dl.On("Fetch", mock.Anything, "https://example.com/v/1", mock.Anything, model.ResolutionMedium, mock.Anything).
		Return(model.DownloadFailure("video unavailable"))
	f.transport.On("EditText", status, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Download failed!") && strings.Contains(text, "video unavailable")
	})).Return(nil)

	f.controller.HandleMessage(context.Background(), req)

	f.metrics.AssertExpectations(t)
	f.dl.AssertExpectations(t)
	f.transport.AssertExpectations(t)
}

func TestHandleMessage_NonLinkCountsBadRequest(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.metrics.On("IncrementDaily", mock.Anything, int64(7)).Return(nil)
	f.metrics.On("Increment", mock.Anything, repository.MetricBadRequest).Return(nil)
	f.transport.On("SendText", int64(7), textSendLink, 1).Return(bot.MessageRef{}, nil)

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    7,
		UserID:    7,
		MessageID: 1,
		IsPrivate: true,
		Text:      "hello bot",
	})

	f.metrics.AssertExpectations(t)
	f.transport.AssertExpectations(t)
	f.dl.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleMessage_GroupInvocationWithPrefix(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	status := bot.MessageRef{ChatID: -100, MessageID: 2}
	f.metrics.On("IncrementDaily", mock.Anything, int64(-100)).Return(nil)
	f.settings.On("Get", mock.Anything, int64(-100)).Return(model.DefaultSettings(-100), nil)
	f.metrics.On("Increment", mock.Anything, repository.MetricVideoRequest).Return(nil)
	f.transport.On("SendText", int64(-100), textProcessing, 1).Return(status, nil)
	f.transport.On("SendChatAction", int64(-100), mock.Anything).Return(nil)
	f.dl.On("Fetch", mock.Anything, "https://example.com/v/1", mock.Anything, model.ResolutionHigh, mock.Anything).
		Return(model.DownloadFailure("gone"))
	f.transport.On("EditText", status, mock.Anything).Return(nil)

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    -100,
		UserID:    7,
		MessageID: 1,
		IsPrivate: false,
		Text:      "/ytdl https://example.com/v/1",
	})

	f.dl.AssertExpectations(t)
}

func TestHandleCommand_Settings(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.settings.On("Get", mock.Anything, int64(7)).Return(model.DefaultSettings(7), nil)
	f.transport.On("SendMarkup", int64(7), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "video") && strings.Contains(text, "high")
	}), mock.MatchedBy(func(markup bot.Markup) bool {
		return len(markup) == 2 && len(markup[0]) == 2 && len(markup[1]) == 3
	})).Return(bot.MessageRef{}, nil)

	f.controller.HandleCommand(context.Background(), "settings", "", &model.JobRequest{ChatID: 7, UserID: 7, IsPrivate: true})

	f.transport.AssertExpectations(t)
}

func TestHandleCommand_StartIncludesQuota(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.metrics.On("DailyCount", mock.Anything, int64(7)).Return(int64(4), nil)
	f.transport.On("SendText", int64(7), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Welcome") && strings.Contains(text, "Remaining quota today: 6/10")
	}), 0).Return(bot.MessageRef{}, nil)

	f.controller.HandleCommand(context.Background(), "start", "", &model.JobRequest{ChatID: 7, UserID: 7, IsPrivate: true})

	f.transport.AssertExpectations(t)
}

func TestHandleCommand_VipTokenFlow(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	status := bot.MessageRef{ChatID: 7, MessageID: 9}
	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.transport.On("SendText", int64(7), textVipVerifying, 3).Return(status, nil)
	f.transport.On("EditText", status, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "VIP is now active")
	})).Return(nil)

	f.controller.HandleCommand(context.Background(), "vip", "tok-1", &model.JobRequest{ChatID: 7, UserID: 7, MessageID: 3, IsPrivate: true})

	f.transport.AssertExpectations(t)
}

func TestHandleCommand_VipRejectsUnknownToken(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	status := bot.MessageRef{ChatID: 7, MessageID: 9}
	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.transport.On("SendText", int64(7), textVipVerifying, 3).Return(status, nil)
	f.transport.On("EditText", status, mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "not recognized")
	})).Return(nil)

	f.controller.HandleCommand(context.Background(), "vip", "bad-token", &model.JobRequest{ChatID: 7, UserID: 7, MessageID: 3, IsPrivate: true})

	f.transport.AssertExpectations(t)
}

func TestHandleCommand_PingForRegularUser(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.transport.On("SendText", int64(7), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "Uptime:") && strings.Contains(text, "Goroutines:")
	}), 0).Return(bot.MessageRef{}, nil)

	f.controller.HandleCommand(context.Background(), "ping", "", &model.JobRequest{ChatID: 7, UserID: 7, Username: "someone", IsPrivate: true})

	f.transport.AssertExpectations(t)
	f.metrics.AssertNotCalled(t, "Snapshot", mock.Anything)
}

func TestHandleCommand_PingForOwnerSendsUsageReport(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	snapshot := model.UsageReport{
		Counters: map[string]int64{"video_request": 12},
		Daily:    map[int64]int64{7: 3},
	}
	f.transport.On("SendChatAction", int64(7), bot.ActionTyping).Return(nil)
	f.metrics.On("Snapshot", mock.Anything).Return(snapshot, nil)
	f.transport.On("SendDocument", int64(7), mock.MatchedBy(func(att bot.Attachment) bool {
		return strings.HasSuffix(att.Path, ".xlsx") && strings.Contains(att.Caption, "Uptime:")
	}), bot.Markup(nil), mock.Anything).Return(nil)

	f.controller.HandleCommand(context.Background(), "ping", "", &model.JobRequest{ChatID: 7, UserID: 7, Username: "admin", IsPrivate: true})

	f.transport.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestHandleCallback_DelegatesToCallbacks(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	f.settings.On("Set", mock.Anything, int64(4), repository.SettingResolution, "medium").Return(nil)
	f.transport.On("AnswerCallback", "cb", mock.Anything).Return(nil)

	f.controller.HandleCallback(context.Background(), &model.CallbackEvent{ID: "cb", ChatID: 4, Data: "medium"})

	f.settings.AssertExpectations(t)
}

func TestHandleMessage_SettingsLookupFailureFallsBackToDefaults(t *testing.T) {
	f := newControllerFixture(t, nil, "")

	status := bot.MessageRef{ChatID: 7, MessageID: 2}
	f.metrics.On("IncrementDaily", mock.Anything, int64(7)).Return(nil)
	f.settings.On("Get", mock.Anything, int64(7)).
		Return(model.UserSettings{}, assert.AnError)
	f.metrics.On("Increment", mock.Anything, repository.MetricVideoRequest).Return(nil)
	f.transport.On("SendText", int64(7), textProcessing, 1).Return(status, nil)
	f.transport.On("SendChatAction", int64(7), mock.Anything).Return(nil)
	f.dl.On("Fetch", mock.Anything, mock.Anything, mock.Anything, model.ResolutionHigh, mock.Anything).
		Return(model.DownloadFailure("gone"))
	f.transport.On("EditText", status, mock.Anything).Return(nil)

	f.controller.HandleMessage(context.Background(), &model.JobRequest{
		ChatID:    7,
		UserID:    7,
		MessageID: 1,
		IsPrivate: true,
		Text:      "https://example.com/v/1",
	})

	f.dl.AssertExpectations(t)
}
