package listquery

import (
	"encoding/json"
	"fmt"
)

// Confirmer obtains operator confirmation before an action runs. A UI
// implementation blocks on a dialog; tests supply a canned answer.
type Confirmer interface {
	// Confirm shows a yes/no prompt
	Confirm(prompt string) bool
	// ConfirmTyped requires the operator to type the literal phrase
	ConfirmTyped(prompt, phrase string) bool
}

// Notifier surfaces action outcomes to the operator
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// AcceptAll is a Confirmer that approves everything, for non-interactive use
type AcceptAll struct{}

func (AcceptAll) Confirm(string) bool              { return true }
func (AcceptAll) ConfirmTyped(string, string) bool { return true }

// NopNotifier discards all notifications
type NopNotifier struct{}

func (NopNotifier) Success(string, string) {}
func (NopNotifier) Error(string, string)   {}

// Action binds a verb to its HTTP call and the optimistic cache effect a
// successful call has on the current page.
type Action[T Record] struct {
	// Verb names the action ("publish", "delete", "duplicate", ...)
	Verb string
	// Method and PathSuffix form the request: <base>/<id><PathSuffix>
	Method     string
	PathSuffix string
	// Body builds the request body from the extra argument; nil sends none
	Body func(extra interface{}) interface{}

	// Destructive actions require a plain confirmation; when ConfirmPhrase
	// is set the operator must type it verbatim instead.
	Destructive   bool
	ConfirmPhrase string
	ConfirmPrompt string

	// Mutate applies the verb's effect to the matching record in place
	Mutate func(record *T, extra interface{})
	// Removes drops the record from the page and decrements the total
	Removes bool
	// Prepends decodes the response's data payload as a new record and
	// prepends it (duplicate-style verbs)
	Prepends bool
}

func (a Action[T]) prompt(count int) string {
	if a.ConfirmPrompt != "" {
		return a.ConfirmPrompt
	}
	if count > 1 {
		return fmt.Sprintf("Apply %q to %d records?", a.Verb, count)
	}
	return fmt.Sprintf("Apply %q to this record?", a.Verb)
}

// confirmed runs the action's confirmation protocol
func (a Action[T]) confirmed(c Confirmer, count int) bool {
	if a.ConfirmPhrase != "" {
		return c.ConfirmTyped(a.prompt(count), a.ConfirmPhrase)
	}
	if a.Destructive {
		return c.Confirm(a.prompt(count))
	}
	return true
}

// decodeRecord extracts a record from a mutation response, accepting either
// a bare object or a {"data": {...}} envelope.
func decodeRecord[T Record](raw json.RawMessage) (T, error) {
	var record T
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}
