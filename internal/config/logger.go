package config

import "github.com/ZebulonRouseFrantzich/biomectl/internal/binary"

// Logger is the same interface the binary package logs through, so one
// console logger serves config loading and acquisition alike.
type Logger = binary.Logger

func defaultLogger() Logger {
	return binary.NopLogger{}
}
