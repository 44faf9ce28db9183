package tsv

import (
	"encoding"
	"reflect"
)

// Separators of the document format.
const (
	LineSeparator  = '\n'
	FieldSeparator = '\t'
)

// Boolean literals accepted by the bool decoder.
const (
	TrueLiteral  = "true"
	FalseLiteral = "false"
)

// constants for the `tsv` struct tag
const (
	TagName            = "tsv"
	SkipTagValue       = "-"
	HexTagOption       = "hex"
	TagOptionDelimiter = ","
)

// logger names
const (
	LoggerName         = "tsv"
	PlanLoggerName     = "tsv.plan"
	RegistryLoggerName = "tsv.registry"
)

// reflect.TypeOf constants for type checks
var (
	ReaderType          = reflect.TypeOf((*Reader)(nil)).Elem()
	ValidatableType     = reflect.TypeOf((*Validatable)(nil)).Elem()
	TextUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)
