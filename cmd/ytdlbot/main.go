package main

import (
	"ytdl-bot/cmd/ytdlbot/cmd"
)

func main() {
	cmd.Execute()
}
