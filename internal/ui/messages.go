package ui

import (
	"github.com/yildizm/tabview/internal/record"
)

// RecordsMsg replaces the browsed records, e.g. after the source file changed
type RecordsMsg struct {
	Records []record.Record
	Source  string
}

// ErrorMsg reports a failure that should be shown without leaving the browser
type ErrorMsg struct {
	Err error
}
