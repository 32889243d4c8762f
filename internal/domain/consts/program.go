package consts

// Program identity.
const (
	ProgramName = "ytgrab"
	ProgramDir  = ".ytgrab"
	LogFileName = "ytgrab.log"
	DBFileName  = "history.db"
)

// Sizes.
const (
	StreamBufferSize = 32 * 1024
	StderrTailBytes  = 4 * 1024
)
