package interview

import (
	"encoding/json"
	"testing"
)

func TestEntry_WireFormat(t *testing.T) {
	history := []Entry{
		MetaEntry("SQL", "Fresher"),
		AnswerEntry("What is a JOIN?", "It combines rows.", 7, "Mostly right."),
	}

	data, err := json.Marshal(history)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// The metadata entry keeps the legacy blob shape.
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw[0]["meta"] != "init" || raw[0]["topic"] != "SQL" || raw[0]["level"] != "Fresher" {
		t.Errorf("unexpected metadata wire shape: %v", raw[0])
	}
	if raw[1]["question"] != "What is a JOIN?" || raw[1]["score"] != float64(7) {
		t.Errorf("unexpected answer wire shape: %v", raw[1])
	}

	var decoded []Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal entries: %v", err)
	}
	if decoded[0].Meta == nil || decoded[0].Meta.Topic != "SQL" {
		t.Errorf("metadata entry lost in round trip: %+v", decoded[0])
	}
	if decoded[1].Answer == nil || decoded[1].Answer.Score != 7 {
		t.Errorf("answer entry lost in round trip: %+v", decoded[1])
	}
}

func TestEntry_UnmarshalLegacyBlob(t *testing.T) {
	// Blob exactly as older deployments stored it.
	blob := `[{"meta":"init","topic":"Networking","level":"Senior"},` +
		`{"question":"Explain TCP.","answer":"A protocol.","score":3,"feedback":"Too thin."}]`

	var history []Entry
	if err := json.Unmarshal([]byte(blob), &history); err != nil {
		t.Fatalf("unmarshal legacy blob: %v", err)
	}
	if history[0].Meta == nil || history[0].Meta.ExperienceLevel != "Senior" {
		t.Errorf("unexpected metadata: %+v", history[0])
	}
	if history[1].Answer == nil || history[1].Answer.Feedback != "Too thin." {
		t.Errorf("unexpected answer: %+v", history[1])
	}
}

func TestEntry_MarshalEmptyFails(t *testing.T) {
	if _, err := json.Marshal(Entry{}); err == nil {
		t.Fatal("expected error marshalling an entry with no variant set")
	}
}

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession("u1", "", "")

	if s.ID == "" {
		t.Error("expected a generated session id")
	}
	if s.Difficulty != LevelEasy {
		t.Errorf("new sessions start at Easy, got %s", s.Difficulty)
	}
	if len(s.History) != 1 || s.History[0].Meta == nil {
		t.Fatalf("history must start with the metadata entry, got %+v", s.History)
	}
	if s.Topic() != DefaultTopic {
		t.Errorf("expected default topic, got %q", s.Topic())
	}
	if s.ExperienceLevel() != DefaultExperienceLevel {
		t.Errorf("expected default experience level, got %q", s.ExperienceLevel())
	}
	if s.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestSession_AccessorsWithMalformedHistory(t *testing.T) {
	s := &Session{ID: "x", Difficulty: LevelMedium}

	if s.Topic() != DefaultTopic {
		t.Errorf("empty history should yield default topic, got %q", s.Topic())
	}
	if s.ExperienceLevel() != DefaultExperienceLevel {
		t.Errorf("empty history should yield default level, got %q", s.ExperienceLevel())
	}
	if s.QuestionCount() != 0 {
		t.Errorf("empty history should count 0 questions, got %d", s.QuestionCount())
	}

	// First entry is an answer instead of metadata.
	s.History = []Entry{AnswerEntry("q", "a", 5, "f")}
	if s.Topic() != DefaultTopic {
		t.Errorf("non-metadata head should yield default topic, got %q", s.Topic())
	}
}

func TestSession_AppendAnswer(t *testing.T) {
	s := NewSession("u1", "Go", "Fresher")
	s.AppendAnswer("What is a channel?", "A typed conduit.", 9, "Good.")
	s.AppendAnswer("What is select?", "Waits on channels.", 8, "Good.")

	if s.QuestionCount() != 2 {
		t.Errorf("expected 2 answered questions, got %d", s.QuestionCount())
	}
	last := s.History[len(s.History)-1]
	if last.Answer == nil || last.Answer.Question != "What is select?" {
		t.Errorf("unexpected last entry: %+v", last)
	}
	// Prior entries untouched.
	if s.History[1].Answer.Question != "What is a channel?" {
		t.Errorf("earlier entry mutated: %+v", s.History[1])
	}
}
