package ports

import "github.com/shelfport/shelfport/pkg/log"

// Logger is the structured logging abstraction consumed by the application
// layer. It is the interface from pkg/log, re-exported so internal packages
// need only depend on ports.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors, re-exported from pkg/log.
var (
	String = log.String
	Int    = log.Int
	Bool   = log.Bool
	Err    = log.Err
)
