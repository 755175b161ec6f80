// Package bterrors defines the error taxonomy shared across the backtest
// engine. Failures classified with New (at the backtest.Run boundary) are
// returned as *Error and, if a handler is installed, reported through it;
// lower-level packages return plain Go errors that are not reported.
package bterrors

import "fmt"

// Kind classifies a failure without tying callers to a specific message.
type Kind int

const (
	NullParam Kind = iota
	Memory
	ConfigParse
	ConfigMissing
	RuleParse
	RuleInvalid
	DataConnection
	DataQuery
	NoData
	InsufficientData
	IO
)

var kindNames = map[Kind]string{
	NullParam:        "null_param",
	Memory:           "memory",
	ConfigParse:      "config_parse",
	ConfigMissing:    "config_missing",
	RuleParse:        "rule_parse",
	RuleInvalid:      "rule_invalid",
	DataConnection:   "data_connection",
	DataQuery:        "data_query",
	NoData:           "no_data",
	InsufficientData: "insufficient_data",
	IO:               "io",
}

// String implements the CLI's error_string(kind) contract.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error wraps a Kind with a message and an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error and reports it to the installed handler, if any.
func New(k Kind, msg string, cause error) *Error {
	e := &Error{Kind: k, Msg: msg, Err: cause}
	report(k, e.Error())
	return e
}

// handler is the sole process-wide hook, settable to nil.
var handler func(Kind, string)

// SetHandler installs (or clears, with nil) the process-wide error callback.
func SetHandler(h func(Kind, string)) {
	handler = h
}

func report(k Kind, msg string) {
	if handler != nil {
		handler(k, msg)
	}
}
