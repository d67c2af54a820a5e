package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/JorgeHRP/conteudoteste/pkg/i18n"
)

var __ = i18n.Translate

// Chat is a conversation shaped for display.
type Chat struct {
	JID       string
	ShortJID  string
	Name      string
	AvatarURL string
	UpdatedAt string
}

// Message is a single message shaped for display.
type Message struct {
	FromMe    bool
	Text      string
	Timestamp string
	PushName  string
}

// ShortJID returns the local part of a WhatsApp JID, e.g. the number in
// "123456@s.whatsapp.net". Anything without an @ passes through unchanged.
func ShortJID(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[:i]
	}
	return jid
}

// FormatTimestamp renders an epoch-seconds value (number or numeric string)
// in local time as DD/MM/YYYY HH:MM. Unparsable values pass through; absent
// values become a dash.
func FormatTimestamp(v any) string {
	switch ts := v.(type) {
	case nil:
		return "—"
	case float64:
		return time.Unix(int64(ts), 0).Format("02/01/2006 15:04")
	case int64:
		return time.Unix(ts, 0).Format("02/01/2006 15:04")
	case int:
		return time.Unix(int64(ts), 0).Format("02/01/2006 15:04")
	case string:
		if ts == "" {
			return "—"
		}
		if secs, err := strconv.ParseInt(ts, 10, 64); err == nil {
			return time.Unix(secs, 0).Format("02/01/2006 15:04")
		}
		return ts
	default:
		return "—"
	}
}

// ExtractText pulls display text out of the polymorphic message payload.
// Priority: plain text, extended text, media placeholders, then the generic
// no-text placeholder. Unknown message kinds fall through to the last one.
func ExtractText(p Payload) string {
	if p.Conversation != "" {
		return p.Conversation
	}
	if p.ExtendedTextMessage != nil && p.ExtendedTextMessage.Text != "" {
		return p.ExtendedTextMessage.Text
	}
	if present(p.ImageMessage) {
		return __("image")
	}
	if present(p.DocumentMessage) {
		return __("document")
	}
	if present(p.VideoMessage) {
		return __("video")
	}
	return __("no text")
}

// present distinguishes an actual payload object from an absent field or an
// explicit JSON null.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// FormatChat shapes one raw chat record for display. Records without any
// identifier are dropped.
func FormatChat(raw RawChat) (Chat, bool) {
	jid := raw.RemoteJID
	if jid == "" {
		jid = raw.ID
	}
	if jid == "" {
		return Chat{}, false
	}

	name := raw.PushName
	if name == "" {
		name = ShortJID(jid)
	}

	return Chat{
		JID:       jid,
		ShortJID:  ShortJID(jid),
		Name:      name,
		AvatarURL: raw.ProfilePicURL,
		UpdatedAt: FormatTimestamp(raw.UpdatedAt),
	}, true
}

// FormatMessage shapes one raw message record for display.
func FormatMessage(raw RawMessage) Message {
	return Message{
		FromMe:    raw.Key.FromMe,
		Text:      ExtractText(raw.Message),
		Timestamp: FormatTimestamp(raw.MessageTimestamp),
		PushName:  raw.PushName,
	}
}

// FormatChats applies FormatChat over a findChats result.
func FormatChats(raw []RawChat) []Chat {
	chats := make([]Chat, 0, len(raw))
	for _, rc := range raw {
		if chat, ok := FormatChat(rc); ok {
			chats = append(chats, chat)
		}
	}
	return chats
}

// FormatMessages applies FormatMessage over a findMessages result.
func FormatMessages(raw []RawMessage) []Message {
	messages := make([]Message, 0, len(raw))
	for _, rm := range raw {
		messages = append(messages, FormatMessage(rm))
	}
	return messages
}
