package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/errors"
)

// Telegram adapts the Bot API to the Transport contract. It also answers
// membership queries for the authorization gate.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	if token == "" {
		return nil, errors.ErrMissingBotToken
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bot API client")
	}
	logger.Info("authorized on telegram",
		zap.String("account", api.Self.FirstName),
		zap.String("username", api.Self.UserName))
	return &Telegram{api: api, logger: logger}, nil
}

func (t *Telegram) SendText(chatID int64, text string, replyTo int) (MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return MessageRef{}, errors.Wrap(err, "message send failed")
	}
	return MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (t *Telegram) SendMarkup(chatID int64, text string, markup Markup) (MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = toKeyboard(markup)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return MessageRef{}, errors.Wrap(err, "message send failed")
	}
	return MessageRef{ChatID: sent.Chat.ID, MessageID: sent.MessageID}, nil
}

func (t *Telegram) EditText(ref MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.DisableWebPagePreview = true
	if _, err := t.api.Send(edit); err != nil {
		return errors.Wrap(err, "message edit failed")
	}
	return nil
}

func (t *Telegram) SendChatAction(chatID int64, action string) error {
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		return errors.Wrap(err, "chat action failed")
	}
	return nil
}

func (t *Telegram) SendDocument(chatID int64, att Attachment, markup Markup, progress UploadProgress) error {
	reader, cleanup, err := openWithProgress(att.Path, progress)
	if err != nil {
		return err
	}
	defer cleanup()

	doc := tgbotapi.NewDocument(chatID, reader)
	doc.Caption = att.Caption
	if att.Thumb != "" {
		doc.Thumb = tgbotapi.FilePath(att.Thumb)
	}
	if markup != nil {
		doc.ReplyMarkup = toKeyboard(markup)
	}
	if _, err := t.api.Send(doc); err != nil {
		return errors.Wrap(err, "document send failed")
	}
	return nil
}

func (t *Telegram) SendVideo(chatID int64, att Attachment, markup Markup, progress UploadProgress) error {
	reader, cleanup, err := openWithProgress(att.Path, progress)
	if err != nil {
		return err
	}
	defer cleanup()

	video := tgbotapi.NewVideo(chatID, reader)
	video.Caption = att.Caption
	video.SupportsStreaming = true
	video.Duration = att.Meta.Duration
	if att.Thumb != "" {
		video.Thumb = tgbotapi.FilePath(att.Thumb)
	}
	if markup != nil {
		video.ReplyMarkup = toKeyboard(markup)
	}
	if _, err := t.api.Send(video); err != nil {
		return errors.Wrap(err, "video send failed")
	}
	return nil
}

func (t *Telegram) SendAudio(chatID int64, path string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	if _, err := t.api.Send(audio); err != nil {
		return errors.Wrap(err, "audio send failed")
	}
	return nil
}

func (t *Telegram) AnswerCallback(callbackID, text string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return errors.Wrap(err, "callback answer failed")
	}
	return nil
}

func (t *Telegram) DownloadAttachment(ctx context.Context, fileID, destPath string) error {
	url, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return errors.Wrap(err, "failed to resolve attachment URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "attachment download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("attachment download failed: %s", resp.Status)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}

// IsParticipant reports whether userID belongs to the configured group or
// channel. A "not found" answer from the platform means not a member; any
// other failure is returned to the caller for the gate policy to decide.
func (t *Telegram) IsParticipant(ctx context.Context, group string, userID int64) (bool, error) {
	member, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: group,
			UserID:             userID,
		},
	})
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "user not found") || strings.Contains(msg, "member not found") {
			return false, nil
		}
		return false, errors.Wrap(err, "membership query failed")
	}

	switch member.Status {
	case "creator", "administrator", "member":
		return true, nil
	default:
		return false, nil
	}
}

func toKeyboard(markup Markup) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(markup))
	for _, row := range markup {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// openWithProgress wraps the file in a reader that reports bytes streamed to
// the platform, which is the only upload progress signal the Bot API offers.
func openWithProgress(path string, progress UploadProgress) (tgbotapi.RequestFileData, func(), error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	var reader io.Reader = file
	if progress != nil {
		reader = &progressReader{r: file, total: stat.Size(), fn: progress}
	}
	return tgbotapi.FileReader{Name: filepath.Base(path), Reader: reader}, func() { file.Close() }, nil
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    UploadProgress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.read, p.total)
	}
	return n, err
}
