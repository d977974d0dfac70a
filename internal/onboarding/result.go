// ABOUTME: Completed onboarding record and metrics derived from the profile.
// ABOUTME: The record is what storage persists once a conversation completes.
package onboarding

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Result is the persisted outcome of a completed conversation.
type Result struct {
	UserID      uuid.UUID `json:"user_id" yaml:"user_id"`
	Profile     Profile   `json:"profile" yaml:"profile"`
	Mission     string    `json:"mission" yaml:"mission"`
	BMI         *float64  `json:"bmi,omitempty" yaml:"bmi,omitempty"`
	Transcript  []Message `json:"transcript" yaml:"transcript"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// Result builds the persisted record for userID. It fails until the session is complete.
func (s Session) Result(userID uuid.UUID) (*Result, error) {
	mission, err := s.Mission()
	if err != nil {
		return nil, err
	}

	r := &Result{
		UserID:     userID,
		Profile:    s.Profile,
		Mission:    mission,
		Transcript: s.Transcript,
	}
	if n := len(s.Transcript); n > 0 {
		r.CompletedAt = s.Transcript[n-1].Timestamp
	}
	if bmi, ok := BMI(s.Profile); ok {
		r.BMI = &bmi
	}
	return r, nil
}

var number = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Number returns the first decimal number in the answer text for key.
func (p Profile) Number(key string) (float64, bool) {
	m := number.FindString(p[key].Text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BMI computes body mass index from the height (cm) and current weight (kg) answers.
func BMI(p Profile) (float64, bool) {
	height, ok := p.Number(KeyHeight)
	if !ok || height <= 0 {
		return 0, false
	}
	weight, ok := p.Number(KeyCurrentWeight)
	if !ok || weight <= 0 {
		return 0, false
	}
	m := height / 100
	return weight / (m * m), true
}
