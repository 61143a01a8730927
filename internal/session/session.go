// Package session holds the client-side chat state: the fitness profile, the
// ordered transcript, and the prompt composition sent to the relay. One
// session serves one consumer at a time.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitchat-backend/internal/models"
)

var (
	ErrProfileIncomplete = errors.New("session: age and weight are required to start")
	ErrNotStarted        = errors.New("session: chat has not been started")
	ErrEmptyMessage      = errors.New("session: message is empty")
	ErrBusy              = errors.New("session: a send is already in flight")
	ErrUnknownField      = errors.New("session: unknown profile field")
)

// promptTemplate mirrors the instruction block the UI composes for every
// question: profile context plus the topic restriction.
const promptTemplate = `
You are a professional fitness and health expert. The user's profile:
- Age: %s
- Sex: %s
- Weight: %s kg

Only answer fitness, health, nutrition, or workout-related questions. If the question is not related to fitness, politely redirect them to fitness topics.

User question: %s

Provide helpful, personalized advice based on their profile. Be encouraging and motivational!
`

const welcomeTemplate = "🏋️ Welcome to your AI Fitness Assistant! I'm here to help you with personalized fitness advice based on your profile:\n\n👤 **Age:** %s\n⚧ **Sex:** %s\n⚖️ **Weight:** %skg\n\nFeel free to ask me anything about fitness, workouts, nutrition, or health! How can I help you today?"

// Session owns the profile and transcript for one chat. Messages are
// immutable once appended; reset clears everything. Sends are serialized:
// a second Send while one is in flight is rejected, the same way the UI
// disables input while loading.
type Session struct {
	client *Client

	mu       sync.Mutex
	profile  models.UserProfile
	messages []models.ChatMessage
	started  bool
	loading  bool
}

func New(client *Client) *Session {
	return &Session{
		client:  client,
		profile: models.UserProfile{Sex: "Male"},
	}
}

// UpdateProfile mutates a single profile field, matching the field-by-field
// form updates. Accepted fields: age, sex, weight.
func (s *Session) UpdateProfile(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case "age":
		s.profile.Age = value
	case "sex":
		s.profile.Sex = value
	case "weight":
		s.profile.Weight = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (s *Session) Profile() models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Start opens the chat and appends the welcome message. Age and weight must
// be filled in first.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.profile.Age == "" || s.profile.Weight == "" {
		return ErrProfileIncomplete
	}

	s.started = true
	s.messages = append(s.messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    models.SenderAI,
		Text:      fmt.Sprintf(welcomeTemplate, s.profile.Age, s.profile.Sex, s.profile.Weight),
		Timestamp: time.Now(),
	})
	return nil
}

func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Messages returns a copy of the transcript in insertion order.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send appends the user message, relays the composed prompt, and appends the
// reply. On a transport failure the user message stays but no error message
// is inserted; the caller surfaces the failure out-of-band.
func (s *Session) Send(ctx context.Context, input string) (models.ChatMessage, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrNotStarted
	}
	if s.loading {
		s.mu.Unlock()
		return models.ChatMessage{}, ErrBusy
	}
	s.loading = true
	s.messages = append(s.messages, models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    models.SenderUser,
		Text:      input,
		Timestamp: time.Now(),
	})
	prompt := ComposePrompt(s.profile, input)
	s.mu.Unlock()

	text, err := s.client.Ask(ctx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return models.ChatMessage{}, err
	}

	reply := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    models.SenderAI,
		Text:      text,
		Timestamp: time.Now(),
	}
	s.messages = append(s.messages, reply)
	return reply, nil
}

// Reset clears the transcript and closes the chat. The profile is kept so
// the form stays filled in.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.loading = false
	s.messages = nil
}

// ComposePrompt renders the full instruction sent upstream for one question.
func ComposePrompt(profile models.UserProfile, input string) string {
	return fmt.Sprintf(promptTemplate, profile.Age, profile.Sex, profile.Weight, input)
}
