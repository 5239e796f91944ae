package api

import (
	"strconv"
	"time"
)

const completionIDPrefix = "chatcmpl-"

// NewCompletionID returns a completion ID derived from t: the "chatcmpl-"
// prefix followed by the unix time in milliseconds.
func NewCompletionID(t time.Time) string {
	return completionIDPrefix + strconv.FormatInt(t.UnixMilli(), 10)
}
