package config

const (
	DefaultTimeZone = "Europe/Kyiv"

	// Import defaults
	ImportPreviewRows = 20
	ImportMaxCells    = 65536

	// Stale session sweep defaults
	DefaultSweepSchedule = "0 3 * * *" // nightly
	DefaultStaleHours    = 72
	SweepBatchSize       = 100
)
