// Package lex models the dialog code-hook events exchanged with the
// conversational platform and the responses it expects back.
package lex

import "strings"

// Invocation sources.
const (
	DialogCodeHook      = "DialogCodeHook"
	FulfillmentCodeHook = "FulfillmentCodeHook"
)

// Intent states.
const (
	Fulfilled  = "Fulfilled"
	Failed     = "Failed"
	InProgress = "InProgress"
)

// Dialog action types.
const (
	ActionClose      = "Close"
	ActionElicitSlot = "ElicitSlot"
	ActionDelegate   = "Delegate"
)

// OriginalMessageAttr is the session attribute carrying the caller's first utterance.
const OriginalMessageAttr = "UserOriginalMessage"

// Event is one dialog turn handed to a code hook.
type Event struct {
	InvocationSource string       `json:"invocationSource"`
	InputTranscript  string       `json:"inputTranscript,omitempty"`
	SessionState     SessionState `json:"sessionState"`
}

type SessionState struct {
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

type Intent struct {
	Name              string `json:"name"`
	Slots             Slots  `json:"slots,omitempty"`
	State             string `json:"state,omitempty"`
	ConfirmationState string `json:"confirmationState,omitempty"`
}

// Slot is a named conversational input. A nil *Slot in Slots means the
// platform has not filled it yet.
type Slot struct {
	Shape string     `json:"shape,omitempty"`
	Value *SlotValue `json:"value,omitempty"`
}

type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
}

// Slots maps slot names to their (possibly absent) values.
type Slots map[string]*Slot

// Value returns the interpreted value of a slot and whether it is set.
func (s Slots) Value(name string) (string, bool) {
	slot := s[name]
	if slot == nil || slot.Value == nil || slot.Value.InterpretedValue == "" {
		return "", false
	}
	return slot.Value.InterpretedValue, true
}

// ValueOr returns the interpreted value of a slot, or def when it is unset.
func (s Slots) ValueOr(name, def string) string {
	if v, ok := s.Value(name); ok {
		return v
	}
	return def
}

// SetSlot fills a scalar slot as if the platform had resolved it to v.
func (i *Intent) SetSlot(name, v string) {
	if i.Slots == nil {
		i.Slots = Slots{}
	}
	i.Slots[name] = &Slot{
		Shape: "Scalar",
		Value: &SlotValue{
			OriginalValue:    v,
			InterpretedValue: v,
			ResolvedValues:   []string{v},
		},
	}
}

// ClearSlot marks a slot as unfilled so the platform asks for it again.
func (i *Intent) ClearSlot(name string) {
	if i.Slots == nil {
		i.Slots = Slots{}
	}
	i.Slots[name] = nil
}

// Transcript returns the caller's free-form text, lower-cased. The original
// message stashed in session attributes wins over the per-turn transcript.
func Transcript(ev *Event) string {
	if msg, ok := ev.SessionState.SessionAttributes[OriginalMessageAttr]; ok {
		return strings.ToLower(msg)
	}
	return strings.ToLower(ev.InputTranscript)
}
