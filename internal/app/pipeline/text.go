package pipeline

// Terminal acknowledgment edits form a linear progress narrative for the
// user: processing -> sending -> success/failure.
const (
	textProcessing = "Processing"
	textSending    = "Download complete. Sending now..."
	textSuccess    = "Download success!✅"
	textFailed     = "Download failed!❌\n\n```%s```"
	textSendLink   = "I think you should send me a link."

	textAudioConverting = "Converting to audio...please wait patiently"
	textAudioFailed     = "Audio conversion failed, sorry."

	textMethodSet     = "Your video send type was set to %s"
	textResolutionSet = "Your default download quality was set to %s"

	textStart = "Send me a link and I will download it for you.\n" +
		"Use /settings to choose delivery format and quality.\n" +
		"In groups, address me with /ytdl <link>."

	textHelp = "1. Send a video link, I will download and send it back.\n" +
		"2. /settings — choose document/video delivery and resolution.\n" +
		"3. Press the audio button under a delivered video to get its soundtrack.\n" +
		"4. /vip <token> — activate VIP with a payment token."

	textAbout = "YouTube downloader bot, rebuilt in Go. Feed it a link, get a file."

	textTerms = "1. Daily quota applies to every user.\n" +
		"2. Do not abuse the service or you will be banned.\n" +
		"3. Media is fetched on your behalf; you are responsible for its use."

	textSettings = "Your current settings:\nDelivery method: %s\nResolution: %s"

	textVip = "VIP gives you a bigger quota. Pay via the channel in /about, " +
		"then send /vip <payment token> to activate."
	textVipVerifying = "Verifying your payment..."
)

// Transport message-size ceiling applied to failure diagnostics.
const maxErrorDetail = 4000

// truncate cuts s to at most limit characters, never splitting a rune; the
// transport rejects edits containing invalid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
