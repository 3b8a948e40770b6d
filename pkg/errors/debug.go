package errors

import "errors"

// Dumped carries the flattened error information attached to error logs.
type Dumped struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the error chain and flattens it for structured logging.
func Dump(err error) Dumped {
	dump := Dumped{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for cursor := err; cursor != nil; cursor = errors.Unwrap(cursor) {
		dump.Chain = append(dump.Chain, cursor.Error())
	}
	return dump
}
