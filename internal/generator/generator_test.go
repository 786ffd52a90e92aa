package generator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerateShape(t *testing.T) {
	opts := DefaultOptions()
	opts.Solves = 120
	opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exp := NewSeeded(1).Generate(opts)
	if len(exp.Sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(exp.Sessions))
	}
	for _, s := range exp.Sessions {
		if len(s.Records) != 120 {
			t.Fatalf("expected 120 records, got %d", len(s.Records))
		}
		for i := 1; i < len(s.Records); i++ {
			if s.Records[i].Unix < s.Records[i-1].Unix {
				t.Fatalf("records out of order in session %d", s.ID)
			}
		}
	}
	if exp.Sessions[0].ScrType != "" {
		t.Fatalf("expected default event to omit scrType")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := DefaultOptions()
	opts.Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var a, b bytes.Buffer
	if err := NewSeeded(7).Generate(opts).Write(&a); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := NewSeeded(7).Generate(opts).Write(&b); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical output for identical seeds")
	}
}

func TestExportLayout(t *testing.T) {
	exp := Export{Sessions: []SessionData{{
		ID:      2,
		Name:    "OH",
		ScrType: "333oh",
		Records: []Record{{Penalty: 2000, Millis: 12345, Scramble: "R U", Unix: 1700000000}},
	}}}
	var buf bytes.Buffer
	if err := exp.Write(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got := string(doc["session2"]); got != `[[[2000,12345],"R U","",1700000000]]` {
		t.Fatalf("unexpected records %s", got)
	}
	var props struct {
		SessionData string `json:"sessionData"`
	}
	if err := json.Unmarshal(doc["properties"], &props); err != nil {
		t.Fatalf("invalid properties: %v", err)
	}
	if !strings.Contains(props.SessionData, `"2":{"name":"OH","opt":{"scrType":"333oh"}}`) {
		t.Fatalf("unexpected sessionData %s", props.SessionData)
	}
}

func TestScrambleAvoidsRepeatedFaces(t *testing.T) {
	g := NewSeeded(3)
	moves := strings.Fields(g.scramble("333"))
	if len(moves) != 20 {
		t.Fatalf("expected 20 moves, got %d", len(moves))
	}
	for i := 1; i < len(moves); i++ {
		if moves[i][0] == moves[i-1][0] {
			t.Fatalf("repeated face in %v", moves)
		}
	}
}
