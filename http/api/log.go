package api

// LogEvent is a single event of the application log
type LogEvent map[string]interface{}
