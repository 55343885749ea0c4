// Package channel defines the interface for chat transports.
// Channels are how Aura talks to the world — Matrix today, anything with
// text + voice notes tomorrow.
package channel

import "context"

// Kind classifies an incoming message.
type Kind int

const (
	KindText Kind = iota
	KindVoice
	KindOther
)

// Message represents an incoming message from any channel.
type Message struct {
	// Source identifies the channel (e.g., "matrix")
	Source string

	// SenderID is the channel-specific sender identifier
	SenderID string

	// RoomID is the channel-specific room/conversation identifier
	RoomID string

	// Content is the message text (empty for voice notes)
	Content string

	// Kind is the declared message type
	Kind Kind

	// HasMedia reports whether the message carries downloadable media
	HasMedia bool

	// MediaURL is the channel-specific media locator (voice notes)
	MediaURL string

	// MediaMIMEType is the declared MIME type of the attached media
	MediaMIMEType string

	// Timestamp is the message timestamp in milliseconds
	Timestamp int64
}

// Response represents an outgoing message to a channel.
type Response struct {
	// Content is the text to send
	Content string

	// RoomID is the target room/conversation
	RoomID string
}

// Channel is the interface for a chat transport.
type Channel interface {
	// Name returns the channel identifier (e.g., "matrix").
	Name() string

	// Start begins listening for messages. Blocks until ctx is cancelled.
	// Received messages are sent to the handler function.
	Start(ctx context.Context, handler MessageHandler) error

	// Send sends a response to a specific room on this channel.
	Send(ctx context.Context, resp Response) error

	// SendTyping shows or hides a typing indicator in a room. Best-effort.
	SendTyping(ctx context.Context, roomID string, typing bool) error

	// DownloadMedia fetches the raw bytes of a message's attached media.
	DownloadMedia(ctx context.Context, msg Message) ([]byte, error)

	// Stop gracefully shuts down the channel.
	Stop() error
}

// MessageHandler is called when a message is received from any channel.
type MessageHandler func(ctx context.Context, msg Message) error
