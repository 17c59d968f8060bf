package domain

// MessageKind selects how a notification is presented.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageSuccess
	MessageError
)

// MessageField is a titled value inside a Message.
type MessageField struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a status notification for the user who issued a command.
type Message struct {
	Kind        MessageKind
	Title       string
	Description string
	Fields      []MessageField
}

// ReplyTarget delivers notifications back to where a request came from.
// Text commands and slash command interactions provide their own implementation.
type ReplyTarget interface {
	Notify(msg Message) error
}
