package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var errStreamingUnsupported = errors.New("streaming unsupported by this connection")

// eventStream emits Server-Sent Events frames for job progress. Every frame
// carries an event name and a JSON payload and is flushed immediately so
// clients see updates as they happen.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// openEventStream switches the response into SSE mode. It fails when the
// underlying writer cannot flush, which streaming requires.
func openEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	return &eventStream{w: w, flusher: flusher}, nil
}

// send writes one frame and flushes it to the client.
func (es *eventStream) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(es.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

// sendError reports a stream-level failure to the client.
func (es *eventStream) sendError(message string) {
	es.send("error", map[string]string{"error": message}) //nolint:errcheck
}

// sendComplete emits the terminal frame for a job.
func (es *eventStream) sendComplete(jobID, status string) {
	es.send("complete", map[string]string{ //nolint:errcheck
		"job_id": jobID,
		"status": status,
	})
}
