package consts

import "time"

// Network timeouts
const (
	DefaultExtractTimeout = 30 * time.Second
	DefaultSocketTimeout  = 20 * time.Second
	ShutdownTimeout       = 5 * time.Second
	ReadHeaderTimeout     = 10 * time.Second
	ProcessWaitDelay      = 3 * time.Second
)

// Temp artifact housekeeping
const (
	SweepInterval = 10 * time.Minute
	SweepMaxAge   = time.Hour
)
