package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/search"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrClosed          = errors.New("chat widget is closed")
	ErrEmptyMessage    = errors.New("message is empty")
)

// State is the visibility of the chat widget.
type State string

const (
	Closed State = "closed"
	Open   State = "open"
)

// Message is one entry of a session's history.
type Message struct {
	Text   string    `json:"text"`
	IsUser bool      `json:"isUser"`
	Links  []Link    `json:"links,omitempty"`
	SentAt time.Time `json:"sentAt"`
}

// Session is a chat widget's state and its history, oldest message first.
type Session struct {
	ID       string    `json:"id"`
	State    State     `json:"state"`
	Messages []Message `json:"messages"`
}

// Catalog is the product source the assistant searches.
type Catalog interface {
	Products() []models.Product
}

// Manager keeps widget sessions in an expiring in-process cache. History grows
// only by appending and is dropped with the session.
type Manager struct {
	catalog  Catalog
	sessions *cache.Cache[Session]
	now      func() time.Time

	mu sync.Mutex
}

func NewManager(catalog Catalog, sessions *cache.Cache[Session]) *Manager {
	return &Manager{
		catalog:  catalog,
		sessions: sessions,
		now:      time.Now,
	}
}

// Start opens a new widget session seeded with the welcome message
func (m *Manager) Start() Session {
	s := Session{
		ID:    uuid.NewString(),
		State: Open,
		Messages: []Message{{
			Text:   WelcomeText,
			SentAt: m.now(),
		}},
	}
	m.sessions.Set(s.ID, s)
	return s
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

// SetState opens or closes the widget; history is kept either way
func (m *Manager) SetState(id string, state State) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return Session{}, err
	}
	s.State = state
	m.sessions.Set(id, s)
	return s, nil
}

// Send records the user's message, answers it against the live catalog and
// returns the assistant's reply.
func (m *Manager) Send(id, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrEmptyMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return Reply{}, err
	}
	if s.State != Open {
		return Reply{}, ErrClosed
	}

	reply := Respond(text, search.Match(text, m.catalog.Products()))

	now := m.now()
	history := make([]Message, len(s.Messages), len(s.Messages)+2)
	copy(history, s.Messages)
	history = append(history,
		Message{Text: text, IsUser: true, SentAt: now},
		Message{Text: reply.Text, Links: reply.Links, SentAt: now},
	)
	s.Messages = history
	m.sessions.Set(id, s)

	return reply, nil
}

// load must be called with m.mu held
func (m *Manager) load(id string) (Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}
