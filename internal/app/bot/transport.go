package bot

import (
	"context"

	"ytdl-bot/internal/app/model"
)

// MessageRef identifies a previously sent message so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Chat activity indicators, passed through to the platform verbatim.
const (
	ActionTyping          = "typing"
	ActionUploadVideo     = "upload_video"
	ActionUploadDocument  = "upload_document"
	ActionRecordVideoNote = "record_video_note"
	ActionRecordVoice     = "record_voice"
	ActionUploadVoice     = "upload_voice"
)

// Button is one inline keyboard button; Data is the callback token the press
// comes back with.
type Button struct {
	Label string
	Data  string
}

// Markup is an inline keyboard, row-major.
type Markup [][]Button

// UploadProgress is called while an attachment is streamed to the platform.
type UploadProgress func(written, total int64)

// Attachment is one local file to deliver, with optional derived metadata.
type Attachment struct {
	Path    string
	Caption string
	Thumb   string
	Meta    model.MediaMetadata
}

// Transport is the narrow messaging-platform contract the pipeline consumes.
type Transport interface {
	SendText(chatID int64, text string, replyTo int) (MessageRef, error)
	SendMarkup(chatID int64, text string, markup Markup) (MessageRef, error)
	EditText(ref MessageRef, text string) error
	SendChatAction(chatID int64, action string) error
	SendDocument(chatID int64, att Attachment, markup Markup, progress UploadProgress) error
	SendVideo(chatID int64, att Attachment, markup Markup, progress UploadProgress) error
	SendAudio(chatID int64, path string) error
	AnswerCallback(callbackID, text string) error
	DownloadAttachment(ctx context.Context, fileID, destPath string) error
}
