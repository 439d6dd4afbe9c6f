package parser

import (
	"strings"

	"github.com/JonMunkholm/bpmerge/internal/vocab"
)

// Stage is the position of the parser within an export.
type Stage int

// Stages in the order an export is read. Appendix is terminal.
const (
	PreUser Stage = iota
	User
	PostUser
	PreReadings
	Readings
	Appendix
)

func (s Stage) String() string {
	switch s {
	case PreUser:
		return "pre_user"
	case User:
		return "user"
	case PostUser:
		return "post_user"
	case PreReadings:
		return "pre_readings"
	case Readings:
		return "readings"
	case Appendix:
		return "appendix"
	default:
		return "unknown"
	}
}

// next returns the stage that follows s after consuming row.
//
//	pre_user      --profile header-->  user
//	user          --any row-->         post_user
//	post_user     --any row-->         pre_readings
//	pre_readings  --readings header--> readings
//	readings      --blank row-->       appendix
//	appendix      --any row-->         appendix
func (s Stage) next(row []string) Stage {
	switch s {
	case PreUser:
		if vocab.IsHeader(strings.Join(row, ","), vocab.ProfileHeaders) {
			return User
		}
	case User:
		return PostUser
	case PostUser:
		return PreReadings
	case PreReadings:
		if vocab.IsHeader(strings.Join(row, ","), vocab.ReadingsHeaders) {
			return Readings
		}
	case Readings:
		if isBlank(row) {
			return Appendix
		}
	}
	return s
}
