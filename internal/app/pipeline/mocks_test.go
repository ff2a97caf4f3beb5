package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ytdl-bot/internal/app/bot"
	"ytdl-bot/internal/app/downloader"
	"ytdl-bot/internal/app/model"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) SendText(chatID int64, text string, replyTo int) (bot.MessageRef, error) {
	args := m.Called(chatID, text, replyTo)
	return args.Get(0).(bot.MessageRef), args.Error(1)
}

func (m *mockTransport) SendMarkup(chatID int64, text string, markup bot.Markup) (bot.MessageRef, error) {
	args := m.Called(chatID, text, markup)
	return args.Get(0).(bot.MessageRef), args.Error(1)
}

func (m *mockTransport) EditText(ref bot.MessageRef, text string) error {
	args := m.Called(ref, text)
	return args.Error(0)
}

func (m *mockTransport) SendChatAction(chatID int64, action string) error {
	args := m.Called(chatID, action)
	return args.Error(0)
}

func (m *mockTransport) SendDocument(chatID int64, att bot.Attachment, markup bot.Markup, progress bot.UploadProgress) error {
	args := m.Called(chatID, att, markup, progress)
	return args.Error(0)
}

func (m *mockTransport) SendVideo(chatID int64, att bot.Attachment, markup bot.Markup, progress bot.UploadProgress) error {
	args := m.Called(chatID, att, markup, progress)
	return args.Error(0)
}

func (m *mockTransport) SendAudio(chatID int64, path string) error {
	args := m.Called(chatID, path)
	return args.Error(0)
}

func (m *mockTransport) AnswerCallback(callbackID, text string) error {
	args := m.Called(callbackID, text)
	return args.Error(0)
}

func (m *mockTransport) DownloadAttachment(ctx context.Context, fileID, destPath string) error {
	args := m.Called(ctx, fileID, destPath)
	return args.Error(0)
}

type mockSettingsStore struct {
	mock.Mock
}

func (m *mockSettingsStore) Get(ctx context.Context, chatID int64) (model.UserSettings, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(model.UserSettings), args.Error(1)
}

func (m *mockSettingsStore) Set(ctx context.Context, chatID int64, key, value string) error {
	args := m.Called(ctx, chatID, key, value)
	return args.Error(0)
}

func (m *mockSettingsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockMetricsStore struct {
	mock.Mock
}

func (m *mockMetricsStore) Increment(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockMetricsStore) IncrementDaily(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *mockMetricsStore) DailyCount(ctx context.Context, chatID int64) (int64, error) {
	args := m.Called(ctx, chatID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMetricsStore) Snapshot(ctx context.Context) (model.UsageReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.UsageReport), args.Error(1)
}

func (m *mockMetricsStore) ResetDaily(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockMetricsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockDownloader struct {
	mock.Mock
}

func (m *mockDownloader) Fetch(ctx context.Context, url, destDir string, resolution model.Resolution, sink downloader.ProgressSink) model.DownloadResult {
	args := m.Called(ctx, url, destDir, resolution, sink)
	return args.Get(0).(model.DownloadResult)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) Probe(path string) model.MediaMetadata {
	args := m.Called(path)
	return args.Get(0).(model.MediaMetadata)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) ExtractAudio(ctx context.Context, src, dst string) error {
	args := m.Called(ctx, src, dst)
	return args.Error(0)
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) IsParticipant(ctx context.Context, group string, userID int64) (bool, error) {
	args := m.Called(ctx, group, userID)
	return args.Bool(0), args.Error(1)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Store(ctx context.Context, localPath string, chatID int64) error {
	args := m.Called(ctx, localPath, chatID)
	return args.Error(0)
}
