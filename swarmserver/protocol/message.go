package protocol

import (
	"encoding/json"
	"sort"
	"strings"
)

// CodePath tags an independent piece of exported shared state. Two tags are
// the same iff their strings are equal.
type CodePath string

// Message is the immutable snapshot an agent exports after its round. The
// same Message may sit in several inboxes at once.
type Message struct {
	entries map[CodePath]Value
}

// MakeMessage copies entries; invalid values are dropped.
func MakeMessage(entries map[CodePath]Value) Message {
	copied := make(map[CodePath]Value, len(entries))
	for path, value := range entries {
		if value.IsValid() {
			copied[path] = value
		}
	}

	return Message{entries: copied}
}

func MakeEmptyMessage() Message {
	return Message{entries: map[CodePath]Value{}}
}

func (m Message) Get(path CodePath) (Value, bool) {
	value, ok := m.entries[path]
	return value, ok
}

func (m Message) Len() int {
	return len(m.entries)
}

// Paths are sorted.
func (m Message) Paths() []CodePath {
	paths := make([]CodePath, 0, len(m.entries))
	for path := range m.entries {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// Entries returns a copy.
func (m Message) Entries() map[CodePath]Value {
	copied := make(map[CodePath]Value, len(m.entries))
	for path, value := range m.entries {
		copied[path] = value
	}

	return copied
}

func (m Message) Equal(other Message) bool {
	if len(m.entries) != len(other.entries) {
		return false
	}

	for path, value := range m.entries {
		otherValue, ok := other.entries[path]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}

	return true
}

func (m Message) String() string {
	parts := make([]string, 0, len(m.entries))
	for _, path := range m.Paths() {
		parts = append(parts, string(path)+"="+m.entries[path].String())
	}

	return "<Message(" + strings.Join(parts, ", ") + ")>"
}

func (m Message) MarshalJSON() ([]byte, error) {
	if m.entries == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(m.entries)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var entries map[CodePath]Value
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	*m = MakeMessage(entries)
	return nil
}

// MessageBuilder collects entries during a round; Build freezes them.
type MessageBuilder struct {
	entries map[CodePath]Value
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{
		entries: make(map[CodePath]Value),
	}
}

func (b *MessageBuilder) Set(path CodePath, value Value) *MessageBuilder {
	b.entries[path] = value
	return b
}

func (b *MessageBuilder) Build() Message {
	return MakeMessage(b.entries)
}
