package encoding

import "fmt"

// DecodeStatus is the outcome of decoding one Hamming word.
type DecodeStatus int

const (
	NoError DecodeStatus = iota
	SingleErrorCorrected
	DoubleErrorDetected
)

func (s DecodeStatus) String() string {
	switch s {
	case NoError:
		return "no error"
	case SingleErrorCorrected:
		return "single error corrected"
	case DoubleErrorDetected:
		return "double error detected"
	default:
		return fmt.Sprintf("DecodeStatus(%d)", int(s))
	}
}

// Trusted reports whether data decoded with this status is intact.
func (s DecodeStatus) Trusted() bool {
	return s == NoError || s == SingleErrorCorrected
}

// DecodeResult pairs the recovered block with its status. For
// DoubleErrorDetected the data is a best effort copy of the received data
// bits and must not be trusted.
type DecodeResult struct {
	Data     []byte
	Status   DecodeStatus
	Syndrome int
}

// Verbosity is the ordinal reporting level shared by the tools.
type Verbosity int

const (
	Quiet Verbosity = iota
	OnlyErrors
	Results
	Steps
)

func (v Verbosity) String() string {
	switch v {
	case Quiet:
		return "quiet"
	case OnlyErrors:
		return "errors"
	case Results:
		return "results"
	case Steps:
		return "steps"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// ClampVerbosity maps any count of -v flags onto the known levels.
func ClampVerbosity(n int) Verbosity {
	if n < int(Quiet) {
		return Quiet
	}
	if n > int(Steps) {
		return Steps
	}
	return Verbosity(n)
}
