package model

type SendMethod string

const (
	SendMethodDocument SendMethod = "document"
	SendMethodVideo    SendMethod = "video"
)

type Resolution string

const (
	ResolutionHigh   Resolution = "high"
	ResolutionMedium Resolution = "medium"
	ResolutionLow    Resolution = "low"
)

// UserSettings holds per-user delivery preferences, keyed by chat id.
// Rows are created implicitly on first read with the defaults below.
type UserSettings struct {
	ChatID     int64
	Method     SendMethod
	Resolution Resolution
}

func DefaultSettings(chatID int64) UserSettings {
	return UserSettings{
		ChatID:     chatID,
		Method:     SendMethodVideo,
		Resolution: ResolutionHigh,
	}
}

func ValidSendMethod(s string) bool {
	return s == string(SendMethodDocument) || s == string(SendMethodVideo)
}

func ValidResolution(s string) bool {
	return s == string(ResolutionHigh) || s == string(ResolutionMedium) || s == string(ResolutionLow)
}
