package model

// Inbound events as seen by the flow controller. The bot transport maps raw
// Telegram updates onto these three shapes; nothing below this layer knows
// about the Telegram API types.

type Command struct {
	Name       string
	Args       string
	SenderID   int64
	SenderName string
}

type TextMessage struct {
	Text       string
	SenderID   int64
	SenderName string
}

type ButtonPress struct {
	Tag        string
	SenderID   int64
	SenderName string
}

type Format int

const (
	FormatPlain Format = iota
	FormatMarkdown
	FormatHTML
)

type Button struct {
	Label string
	Tag   string
}

// Response is the transport-agnostic description of what to send back for
// one inbound event. Photo, when set, turns the body into a caption.
// Document, when set, is a path to a file to deliver (CSV exports).
type Response struct {
	Body     string
	Photo    string
	Document string
	Buttons  []Button
	Format   Format
}
