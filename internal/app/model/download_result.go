package model

// DownloadResult is produced exactly once per job by the downloader. Failures
// travel as data, never as a panic, so the pipeline can always produce a
// user-visible reply.
type DownloadResult struct {
	Success bool
	Files   []string
	Error   string
}

func DownloadSuccess(files []string) DownloadResult {
	return DownloadResult{Success: true, Files: files}
}

func DownloadFailure(detail string) DownloadResult {
	if detail == "" {
		detail = "unknown download error"
	}
	return DownloadResult{Success: false, Error: detail}
}
