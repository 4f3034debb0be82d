package lex

// Response is what a code hook returns to the platform.
type Response struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []Message    `json:"messages,omitempty"`
}

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

func plainText(msg string) []Message {
	return []Message{{ContentType: "PlainText", Content: msg}}
}

// Close ends the intent in the given state with a single message.
func Close(ev *Event, state, msg string) *Response {
	return &Response{
		SessionState: SessionState{
			DialogAction: &DialogAction{Type: ActionClose},
			Intent: Intent{
				Name:  ev.SessionState.Intent.Name,
				State: state,
			},
		},
		Messages: plainText(msg),
	}
}

// ElicitSlot asks the caller for one specific slot again without ending the intent.
func ElicitSlot(ev *Event, slot, msg string) *Response {
	return &Response{
		SessionState: SessionState{
			DialogAction: &DialogAction{Type: ActionElicitSlot, SlotToElicit: slot},
			Intent: Intent{
				Name:  ev.SessionState.Intent.Name,
				Slots: ev.SessionState.Intent.Slots,
				State: InProgress,
			},
		},
		Messages: plainText(msg),
	}
}

// Delegate hands control back to the platform's own slot filling.
func Delegate(ev *Event) *Response {
	return &Response{
		SessionState: SessionState{
			DialogAction: &DialogAction{Type: ActionDelegate},
			Intent:       ev.SessionState.Intent,
		},
	}
}
