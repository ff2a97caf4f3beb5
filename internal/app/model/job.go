package model

// JobRequest is the canonical form of one inbound download request. It is
// created at message intake, consumed once by the pipeline and discarded when
// the job terminates.
type JobRequest struct {
	ChatID    int64
	UserID    int64
	Username  string
	MessageID int
	IsPrivate bool
	Text      string
	URL       string
}

// CallbackEvent is one inline-button press, correlated by the platform's
// opaque callback token.
type CallbackEvent struct {
	ID        string
	ChatID    int64
	UserID    int64
	MessageID int
	Data      string

	// Set when the pressed button is attached to a delivered video.
	VideoFileID   string
	VideoFileName string
}
