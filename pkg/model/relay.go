package model

import "encoding/json"

// RequestDescriptor is the user-specified outbound call. A nil Body sends
// no payload and is recorded as null.
type RequestDescriptor struct {
	Method  string
	Url     string
	Headers map[string]string
	Body    *string
}

// RelayResult is the normalized outcome of one relay attempt. Failed marks a
// transport-level failure; any status code received from the origin is a
// successful relay.
type RelayResult struct {
	Data       json.RawMessage
	Status     int
	StatusText string
	Headers    map[string]string
	Duration   int64
	Failed     bool
	Error      string
}
