package notify

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// message builds plain text together with Telegram entities, so report
// content never has to be escaped for a parse mode.
type message struct {
	text     strings.Builder
	offset   int
	entities []tgbotapi.MessageEntity
}

// utf16Len counts UTF-16 code units. Telegram entity offsets and lengths
// are expressed in them.
func utf16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2
			} else {
				length++
			}
		}
	}
	return length
}

func (m *message) write(s string) *message {
	m.text.WriteString(s)
	m.offset += utf16Len(s)
	return m
}

func (m *message) styled(kind, s string) *message {
	if s == "" {
		return m
	}
	m.entities = append(m.entities, tgbotapi.MessageEntity{
		Type:   kind,
		Offset: m.offset,
		Length: utf16Len(s),
	})
	return m.write(s)
}

func (m *message) bold(s string) *message { return m.styled("bold", s) }

func (m *message) code(s string) *message { return m.styled("code", s) }

func (m *message) String() string { return m.text.String() }
