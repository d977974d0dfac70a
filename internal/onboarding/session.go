// ABOUTME: Onboarding conversation state machine over the fixed question script.
// ABOUTME: Submit is a pure update returning a new Session with one reply appended.
package onboarding

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("empty input")
	// ErrComplete is returned when input arrives after the conversation finished.
	ErrComplete = errors.New("onboarding already complete")
	// ErrIncomplete is returned when a result is requested before completion.
	ErrIncomplete = errors.New("onboarding not complete")
)

// State is the position of the conversation.
type State int

const (
	AwaitingAnswer State = iota
	AwaitingScore
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case AwaitingScore:
		return "awaiting_score"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Author identifies who wrote a transcript message.
type Author string

const (
	AuthorSystem Author = "system"
	AuthorUser   Author = "user"
)

// Message is one transcript entry.
type Message struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Author    Author    `json:"author" yaml:"author"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Answer is what the user gave for one data point: free text, and for
// discovery questions a 1-10 score.
type Answer struct {
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Score int    `json:"score,omitempty" yaml:"score,omitempty"`
}

// Profile maps data point keys to answers.
type Profile map[string]Answer

// Session is the full conversation state. Treat it as a value: Submit never
// mutates its receiver.
type Session struct {
	State      State
	Index      int
	Profile    Profile
	Transcript []Message
}

// New starts a conversation with the welcome message and the first question.
func New(now time.Time) Session {
	return Session{
		State:   AwaitingAnswer,
		Profile: Profile{},
		Transcript: []Message{
			newMessage(AuthorSystem, WelcomeText, now),
			newMessage(AuthorSystem, Script[0].Text, now),
		},
	}
}

// Current returns the question being answered, or false once complete.
func (s Session) Current() (Question, bool) {
	if s.State == Complete || s.Index >= len(Script) {
		return Question{}, false
	}
	return Script[s.Index], true
}

// Prompt returns the last system message, which is what the user should answer next.
func (s Session) Prompt() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Author == AuthorSystem {
			return s.Transcript[i].Text
		}
	}
	return ""
}

// Submit applies one user reply and returns the next session.
// The user's raw text is appended, followed by exactly one system message.
func (s Session) Submit(text string, now time.Time) (Session, error) {
	if s.State == Complete {
		return s, ErrComplete
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s, ErrEmptyInput
	}

	next := Session{
		State:      s.State,
		Index:      s.Index,
		Profile:    maps.Clone(s.Profile),
		Transcript: slices.Clone(s.Transcript),
	}
	if next.Profile == nil {
		next.Profile = Profile{}
	}
	next.Transcript = append(next.Transcript, newMessage(AuthorUser, text, now))

	q := Script[s.Index]
	switch s.State {
	case AwaitingAnswer:
		ans := next.Profile[q.DataPoint]
		ans.Text = trimmed
		next.Profile[q.DataPoint] = ans

		if q.HasFollowUp() {
			next.State = AwaitingScore
			next.say(q.FollowUp, now)
			return next, nil
		}
		next.advance(now)

	case AwaitingScore:
		score, ok := ExtractScore(trimmed)
		if !ok {
			next.say(RepromptText, now)
			return next, nil
		}
		ans := next.Profile[q.DataPoint]
		ans.Score = score
		next.Profile[q.DataPoint] = ans
		next.advance(now)
	}

	return next, nil
}

// advance moves to the next question, or completes the conversation after the last.
func (s *Session) advance(now time.Time) {
	s.Index++
	if s.Index >= len(Script) {
		s.State = Complete
		s.say(CompletionText, now)
		return
	}
	s.State = AwaitingAnswer
	s.say(Script[s.Index].Text, now)
}

func (s *Session) say(text string, now time.Time) {
	s.Transcript = append(s.Transcript, newMessage(AuthorSystem, text, now))
}

func newMessage(author Author, text string, now time.Time) Message {
	return Message{ID: uuid.New(), Author: author, Text: text, Timestamp: now}
}

var digitRun = regexp.MustCompile(`\d+`)

// ExtractScore returns the first run of digits in text when it is a score from 1 to 10.
func ExtractScore(text string) (int, bool) {
	m := digitRun.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 10 {
		return 0, false
	}
	return n, true
}

// Mission composes the mission statement from the completed profile.
func (s Session) Mission() (string, error) {
	if s.State != Complete {
		return "", ErrIncomplete
	}
	return fmt.Sprintf("I want %s so I can %s because %s",
		s.Profile[KeyMainMotivation].Text,
		s.Profile[KeySixMonthVision].Text,
		s.Profile[KeyDeepWhy].Text,
	), nil
}
