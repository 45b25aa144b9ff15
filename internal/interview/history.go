package interview

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults used when a session's metadata entry is missing or corrupt.
const (
	DefaultTopic           = "General Coding"
	DefaultExperienceLevel = "Fresher"
)

// Metadata is the first entry of every session history. It fixes the
// topic and candidate experience level for the session's lifetime.
type Metadata struct {
	Topic           string
	ExperienceLevel string
}

// AnswerRecord is one scored answer. Immutable once appended.
type AnswerRecord struct {
	Question string
	Answer   string
	Score    int
	Feedback string
}

// Entry is a tagged variant: exactly one of Meta or Answer is set.
// The wire format matches the session blobs the store persists:
//
//	{"meta":"init","topic":"SQL","level":"Fresher"}
//	{"question":"...","answer":"...","score":7,"feedback":"..."}
type Entry struct {
	Meta   *Metadata
	Answer *AnswerRecord
}

// MetaEntry builds a metadata entry.
func MetaEntry(topic, experienceLevel string) Entry {
	return Entry{Meta: &Metadata{Topic: topic, ExperienceLevel: experienceLevel}}
}

// AnswerEntry builds an answer entry.
func AnswerEntry(question, answer string, score int, feedback string) Entry {
	return Entry{Answer: &AnswerRecord{
		Question: question,
		Answer:   answer,
		Score:    score,
		Feedback: feedback,
	}}
}

type metaJSON struct {
	Meta  string `json:"meta"`
	Topic string `json:"topic"`
	Level string `json:"level"`
}

type answerJSON struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	switch {
	case e.Meta != nil:
		return json.Marshal(metaJSON{
			Meta:  "init",
			Topic: e.Meta.Topic,
			Level: e.Meta.ExperienceLevel,
		})
	case e.Answer != nil:
		return json.Marshal(answerJSON{
			Question: e.Answer.Question,
			Answer:   e.Answer.Answer,
			Score:    e.Answer.Score,
			Feedback: e.Answer.Feedback,
		})
	default:
		return nil, fmt.Errorf("history entry has neither metadata nor answer")
	}
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	// Probe for the "meta" tag first; anything else is an answer record.
	var probe struct {
		Meta *string `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Meta != nil {
		var m metaJSON
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		e.Meta = &Metadata{Topic: m.Topic, ExperienceLevel: m.Level}
		e.Answer = nil
		return nil
	}

	var a answerJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	e.Answer = &AnswerRecord{
		Question: a.Question,
		Answer:   a.Answer,
		Score:    a.Score,
		Feedback: a.Feedback,
	}
	e.Meta = nil
	return nil
}

// Session is one interview instance: difficulty plus the append-only
// Q&A history for one candidate run.
type Session struct {
	ID         string
	OwnerID    string
	Difficulty Level
	History    []Entry
	CreatedAt  time.Time
}

// NewSession creates a session at the lowest difficulty whose history
// holds only the metadata entry. Empty topic or experience level fall
// back to the defaults.
func NewSession(ownerID, topic, experienceLevel string) *Session {
	if topic == "" {
		topic = DefaultTopic
	}
	if experienceLevel == "" {
		experienceLevel = DefaultExperienceLevel
	}
	return &Session{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Difficulty: LevelEasy,
		History:    []Entry{MetaEntry(topic, experienceLevel)},
		CreatedAt:  time.Now().UTC(),
	}
}

// Topic returns the session topic from the metadata entry, or the
// default when the entry is missing or malformed.
func (s *Session) Topic() string {
	if len(s.History) > 0 && s.History[0].Meta != nil && s.History[0].Meta.Topic != "" {
		return s.History[0].Meta.Topic
	}
	return DefaultTopic
}

// ExperienceLevel returns the candidate level from the metadata entry,
// or the default when the entry is missing or malformed.
func (s *Session) ExperienceLevel() string {
	if len(s.History) > 0 && s.History[0].Meta != nil && s.History[0].Meta.ExperienceLevel != "" {
		return s.History[0].Meta.ExperienceLevel
	}
	return DefaultExperienceLevel
}

// QuestionCount is the number of answered questions: every history
// entry past the metadata one, clamped at zero.
func (s *Session) QuestionCount() int {
	if len(s.History) <= 1 {
		return 0
	}
	return len(s.History) - 1
}

// AppendAnswer appends a scored answer to the history.
func (s *Session) AppendAnswer(question, answer string, score int, feedback string) {
	s.History = append(s.History, AnswerEntry(question, answer, score, feedback))
}
