// Package api implements the handlers for the API routes
package api

// ViewRecorder counts the views served by the handlers. A nil recorder
// is allowed.
type ViewRecorder interface {
	Record(kind, result string)
}

func record(views ViewRecorder, kind, result string) {
	if views == nil {
		return
	}

	views.Record(kind, result)
}
