package plc

import (
	"log"
	"os"
)

// Verbosity levels, matching the log-level-floor convention described by
// base_verbosity: a message at level L is emitted only when the configured
// floor is <= L. Lower numbers are more important.
const (
	VerboseErrors  = 0
	VerboseWarn    = 10
	VerboseInfo    = 20
	VerboseDetail  = 30
	VerboseNoise   = 40
	DefaultVerbose = VerboseDetail
)

var progressLog = log.New(os.Stderr, "plc: ", 0)

// logProgress emits msg when floor (the caller's configured base verbosity)
// permits messages at the given level.
func logProgress(floor, level int, format string, args ...interface{}) {
	if level < floor {
		return
	}
	progressLog.Printf(format, args...)
}
