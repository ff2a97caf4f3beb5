package model

// MediaMetadata is derived per produced file, best effort. Probing failure
// degrades to these defaults instead of failing the job.
type MediaMetadata struct {
	Width    int
	Height   int
	Duration int
	Thumb    string
}

const (
	DefaultVideoWidth  = 1280
	DefaultVideoHeight = 720
)

func DefaultMetadata() MediaMetadata {
	return MediaMetadata{Width: DefaultVideoWidth, Height: DefaultVideoHeight}
}
