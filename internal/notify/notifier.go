// Package notify sends fire-and-forget HTTP notifications for timer events.
// The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Notifier posts plain-text HTTP notifications for selected bus events.
type Notifier struct {
	url        string
	title      string
	onComplete bool
	onError    bool
	onResult   bool
	client     *http.Client

	names    map[string]string
	complete map[string]bool
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// "cubetimer" is used instead.
func New(notifURL, title string, onComplete, onError, onResult bool) *Notifier {
	if title == "" {
		title = "cubetimer"
	}
	return &Notifier{
		url:        notifURL,
		title:      title,
		onComplete: onComplete,
		onError:    onError,
		onResult:   onResult,
		client:     &http.Client{Timeout: 10 * time.Second},
		names:      make(map[string]string),
		complete:   make(map[string]bool),
	}
}

// Attach subscribes the Notifier to the events it reports on.
func (n *Notifier) Attach(sub bus.Subscriber) {
	sub.Subscribe(attempt.EventContextRefreshed, n.onRefreshed)
	sub.Subscribe(attempt.EventSyncFailed, n.onSyncFailed)
	sub.Subscribe(attempt.EventCompleted, n.onCompleted)
}

func (n *Notifier) onRefreshed(payload any) {
	snap := payload.(attempt.Snapshot)
	if snap.ContextName != "" {
		n.names[snap.ContextID] = snap.ContextName
	}
	was := n.complete[snap.ContextID]
	n.complete[snap.ContextID] = snap.IsContextComplete
	if !n.onComplete || was || !snap.IsContextComplete || len(snap.PriorAttempts) == 0 {
		return
	}
	times := make([]string, len(snap.PriorAttempts))
	for i, p := range snap.PriorAttempts {
		times[i] = p.DisplayText
	}
	go n.post(fmt.Sprintf("%s complete: %s", n.name(snap.ContextID), strings.Join(times, ", ")))
}

func (n *Notifier) onSyncFailed(payload any) {
	if !n.onError {
		return
	}
	f := payload.(attempt.SyncFailure)
	go n.post("Sync failed: " + f.Message)
}

func (n *Notifier) onCompleted(payload any) {
	if !n.onResult {
		return
	}
	res := payload.(attempt.Result)
	text := attempt.FormatCentiseconds(res.ElapsedCentiseconds)
	switch {
	case res.IsDNF:
		text = "DNF"
	case res.IsPlusTwo:
		text = attempt.FormatCentiseconds(res.ElapsedCentiseconds+200) + "+"
	}
	go n.post(fmt.Sprintf("%s: %s", n.name(res.ContextID), text))
}

func (n *Notifier) name(contextID string) string {
	if name, ok := n.names[contextID]; ok {
		return name
	}
	return contextID
}

// post sends a plain-text POST to the configured URL. Failures are logged
// and otherwise discarded so they never interrupt timing.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		log.Debug().Err(err).Msg("notify: build request")
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("notify: post")
		return
	}
	resp.Body.Close()
}
