package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
)

type recordingHandler struct {
	messages  []*model.JobRequest
	commands  []string
	callbacks []*model.CallbackEvent
}

func (h *recordingHandler) HandleMessage(ctx context.Context, req *model.JobRequest) {
	h.messages = append(h.messages, req)
}

func (h *recordingHandler) HandleCommand(ctx context.Context, command, args string, req *model.JobRequest) {
	h.commands = append(h.commands, command)
}

func (h *recordingHandler) HandleCallback(ctx context.Context, ev *model.CallbackEvent) {
	h.callbacks = append(h.callbacks, ev)
}

func privateMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 12,
		From:      &tgbotapi.User{ID: 7, UserName: "alice"},
		Chat:      &tgbotapi.Chat{ID: 7, Type: "private"},
		Text:      text,
	}
}

func TestDispatch_PlainMessage(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(nil, h, 1, zap.NewNop())

	d.dispatch(context.Background(), tgbotapi.Update{Message: privateMessage("https://example.com/v/1")})

	assert.Len(t, h.messages, 1)
	req := h.messages[0]
	assert.Equal(t, int64(7), req.ChatID)
	assert.Equal(t, "alice", req.Username)
	assert.True(t, req.IsPrivate)
	assert.Equal(t, "https://example.com/v/1", req.Text)
}

func TestDispatch_KnownCommand(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(nil, h, 1, zap.NewNop())

	msg := privateMessage("/settings")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/settings")}}
	d.dispatch(context.Background(), tgbotapi.Update{Message: msg})

	assert.Equal(t, []string{"settings"}, h.commands)
	assert.Empty(t, h.messages)
}

func TestDispatch_UnknownCommandTreatedAsMessage(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(nil, h, 1, zap.NewNop())

	// "/ytdl <link>" is not a registered command, it flows through the
	// message path where the gate and validator handle the prefix.
	msg := privateMessage("/ytdl https://example.com/v/1")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len("/ytdl")}}
	d.dispatch(context.Background(), tgbotapi.Update{Message: msg})

	assert.Empty(t, h.commands)
	assert.Len(t, h.messages, 1)
}

func TestDispatch_MessageWithoutSenderIgnored(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(nil, h, 1, zap.NewNop())

	msg := privateMessage("hello")
	msg.From = nil
	d.dispatch(context.Background(), tgbotapi.Update{Message: msg})

	assert.Empty(t, h.messages)
	assert.Empty(t, h.commands)
}

func TestDecodeCallback(t *testing.T) {
	cb := &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		Data: "audio",
		From: &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{
			MessageID: 30,
			Chat:      &tgbotapi.Chat{ID: 9},
			Video:     &tgbotapi.Video{FileID: "file-abc", FileName: "clip.mp4"},
		},
	}

	ev := decodeCallback(cb)

	assert.Equal(t, "cb-1", ev.ID)
	assert.Equal(t, "audio", ev.Data)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, int64(9), ev.ChatID)
	assert.Equal(t, 30, ev.MessageID)
	assert.Equal(t, "file-abc", ev.VideoFileID)
	assert.Equal(t, "clip.mp4", ev.VideoFileName)
}

func TestDecodeCallback_NoAttachment(t *testing.T) {
	ev := decodeCallback(&tgbotapi.CallbackQuery{ID: "cb-2", Data: "high"})

	assert.Equal(t, "cb-2", ev.ID)
	assert.Empty(t, ev.VideoFileID)
	assert.Zero(t, ev.ChatID)
}
