// Package views holds the state machines behind the home, detail, and admin views.
//
// Each view state is an immutable value. Reduce functions take the current state and
// an event and return the next state. Controllers run the network calls and feed the
// results back through the reducers, tagging every fetch with a Generation so a
// response that arrives after a newer fetch started is dropped.
package views

import (
	"github.com/google/uuid"
	"github.com/router-for-me/ModelMarket/internal/market"
)

// Generation tags a fetch. Only the latest generation may write results.
type Generation uint64

// Event is any input to a view reducer.
type Event interface {
	isEvent()
}

// FetchStarted begins a new list fetch and advances the generation.
type FetchStarted struct{}

// FetchSucceeded delivers fetched models for generation Gen.
type FetchSucceeded struct {
	Gen    Generation
	Models []market.Model
}

// FetchFailed reports a failed fetch for generation Gen.
type FetchFailed struct {
	Gen     Generation
	Message string
}

// NoticeDismissed removes a notice by ID. An empty ID dismisses every notice.
type NoticeDismissed struct {
	ID string
}

func (FetchStarted) isEvent()    {}
func (FetchSucceeded) isEvent()  {}
func (FetchFailed) isEvent()     {}
func (NoticeDismissed) isEvent() {}

// Notice variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notice is a transient, dismissable message.
type Notice struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}

// ErrorNotice builds a destructive notice titled "Error".
func ErrorNotice(message string) Notice {
	return Notice{ID: uuid.NewString(), Title: "Error", Message: message, Variant: VariantDestructive}
}

// SuccessNotice builds a default notice titled "Success".
func SuccessNotice(message string) Notice {
	return Notice{ID: uuid.NewString(), Title: "Success", Message: message, Variant: VariantDefault}
}

func dismiss(notices []Notice, id string) []Notice {
	if id == "" {
		return nil
	}
	out := make([]Notice, 0, len(notices))
	for _, n := range notices {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func appendNotice(notices []Notice, n Notice) []Notice {
	out := make([]Notice, 0, len(notices)+1)
	out = append(out, notices...)
	return append(out, n)
}
