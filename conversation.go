package main

import "sync"

// State is the position of a conversation in the lead-capture dialogue.
type State string

const (
	StateIdle       State = "idle"
	StateAwaitNiche State = "await_niche"
	StateAwaitName  State = "await_name"
	StateAwaitPhone State = "await_phone"
)

// Conversation is the per-chat dialogue state. Fields are filled in flow
// order: Name and Phone are never set while Niche is empty.
type Conversation struct {
	ChatID int64
	State  State
	Niche  string
	Name   string
	Phone  string
}

// Active reports whether a dialogue is in progress.
func (c *Conversation) Active() bool {
	return c.State != StateIdle && c.State != ""
}

// reset clears accumulated fields and returns to IDLE.
func (c *Conversation) reset() {
	c.State = StateIdle
	c.Niche = ""
	c.Name = ""
	c.Phone = ""
}

// record stores text into the field owned by the current state without
// advancing. Recording twice in the same state keeps the latest value.
func (c *Conversation) record(text string) {
	switch c.State {
	case StateAwaitNiche:
		c.Niche = text
	case StateAwaitName:
		c.Name = text
	case StateAwaitPhone:
		c.Phone = text
	}
}

// ConversationStore maps chat ids to conversations. Unknown ids read as IDLE.
// Per-conversation ordering is provided by the dispatcher; the mutex only
// protects the map itself.
type ConversationStore struct {
	mu    sync.Mutex
	convs map[int64]Conversation
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{convs: make(map[int64]Conversation)}
}

// Get returns a copy of the conversation for chatID.
func (s *ConversationStore) Get(chatID int64) Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.convs[chatID]
	if !ok {
		return Conversation{ChatID: chatID, State: StateIdle}
	}
	return conv
}

// Put saves conv. IDLE conversations are dropped from the map.
func (s *ConversationStore) Put(conv Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !conv.Active() {
		delete(s.convs, conv.ChatID)
		return
	}
	s.convs[conv.ChatID] = conv
}

// Len returns the number of conversations currently mid-flow.
func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.convs)
}
