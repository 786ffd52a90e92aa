// Package generator builds synthetic csTimer exports for demos and tests.
package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Options controls the shape of a generated export.
type Options struct {
	Sessions int
	Solves   int
	// Start is the timestamp of the first solve. Defaults to one year ago.
	Start  time.Time
	Events []string
	// DNFRate and Plus2Rate are per-solve penalty probabilities.
	DNFRate   float64
	Plus2Rate float64
}

// DefaultOptions returns a small multi-event export layout.
func DefaultOptions() Options {
	return Options{
		Sessions:  3,
		Solves:    500,
		Events:    []string{"333", "222so", "333oh"},
		DNFRate:   0.02,
		Plus2Rate: 0.03,
	}
}

// baseMeans are starting mean times in seconds per scramble type.
var baseMeans = map[string]float64{
	"333":    22,
	"222so":  8,
	"333oh":  38,
	"444wca": 75,
	"pyrso":  10,
	"skbso":  12,
	"clkwca": 15,
}

const defaultBaseMean = 30

// Generator produces randomized solve histories.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Export is a csTimer export document. It marshals to the layout csTimer
// writes: session<id> arrays plus properties.sessionData as a JSON string.
type Export struct {
	Sessions []SessionData
}

// SessionData is one generated session.
type SessionData struct {
	ID      int
	Name    string
	ScrType string
	Records []Record
}

// Record is one csTimer solve record.
type Record struct {
	Penalty  int
	Millis   int64
	Scramble string
	Comment  string
	Unix     int64
}

// MarshalJSON encodes a record as [[penalty, ms], scramble, comment, unix].
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{[]any{r.Penalty, r.Millis}, r.Scramble, r.Comment, r.Unix})
}

type sessionMeta struct {
	Name any `json:"name"`
	Opt  struct {
		ScrType string `json:"scrType,omitempty"`
	} `json:"opt"`
}

// MarshalJSON encodes the export in csTimer layout.
func (e Export) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(e.Sessions)+1)
	metas := make(map[string]sessionMeta, len(e.Sessions))
	for _, s := range e.Sessions {
		records := s.Records
		if records == nil {
			records = []Record{}
		}
		doc["session"+strconv.Itoa(s.ID)] = records
		var meta sessionMeta
		meta.Name = s.Name
		if n, err := strconv.Atoi(s.Name); err == nil {
			meta.Name = n
		}
		meta.Opt.ScrType = s.ScrType
		metas[strconv.Itoa(s.ID)] = meta
	}
	encoded, err := json.Marshal(metas)
	if err != nil {
		return nil, err
	}
	doc["properties"] = map[string]any{"sessionData": string(encoded)}
	return json.Marshal(doc)
}

// Write encodes the export to w.
func (e Export) Write(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(e); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Generate simulates opts.Sessions sessions of opts.Solves solves each. Solves
// come in bursts of practice separated by breaks of hours to days, and times
// improve slowly over a session.
func (g *Generator) Generate(opts Options) Export {
	if opts.Start.IsZero() {
		opts.Start = time.Now().AddDate(-1, 0, 0)
	}
	if len(opts.Events) == 0 {
		opts.Events = DefaultOptions().Events
	}
	var out Export
	for i := 0; i < opts.Sessions; i++ {
		event := opts.Events[i%len(opts.Events)]
		s := SessionData{
			ID:      i + 1,
			Name:    strconv.Itoa(i + 1),
			ScrType: event,
		}
		if event == "333" {
			// csTimer leaves scrType unset for the default event.
			s.ScrType = ""
		}
		s.Records = g.records(event, opts)
		out.Sessions = append(out.Sessions, s)
	}
	return out
}

func (g *Generator) records(event string, opts Options) []Record {
	mean, ok := baseMeans[event]
	if !ok {
		mean = defaultBaseMean
	}
	records := make([]Record, 0, opts.Solves)
	at := opts.Start.Add(time.Duration(g.rnd.Intn(24*60)) * time.Minute)
	burst := g.burstLength()
	for i := 0; i < opts.Solves; i++ {
		progress := float64(i) / math.Max(1, float64(opts.Solves-1))
		target := mean * (1 - 0.3*progress)
		secs := math.Max(0.5, target+g.rnd.NormFloat64()*target*0.1)
		rec := Record{
			Millis:   int64(math.Round(secs * 1000)),
			Scramble: g.scramble(event),
			Unix:     at.Unix(),
		}
		switch r := g.rnd.Float64(); {
		case r < opts.DNFRate:
			rec.Penalty = -1
		case r < opts.DNFRate+opts.Plus2Rate:
			rec.Penalty = 2000
		}
		records = append(records, rec)

		burst--
		if burst > 0 {
			at = at.Add(time.Duration(secs*float64(time.Second)) + time.Duration(10+g.rnd.Intn(30))*time.Second)
			continue
		}
		burst = g.burstLength()
		at = at.Add(time.Duration(2+g.rnd.Intn(46)) * time.Hour)
	}
	return records
}

func (g *Generator) burstLength() int {
	return 10 + g.rnd.Intn(50)
}

var (
	faces     = []string{"R", "L", "U", "D", "F", "B"}
	modifiers = []string{"", "'", "2"}
)

func (g *Generator) scramble(event string) string {
	length := 20
	switch event {
	case "222so":
		length = 9
	case "444wca":
		length = 40
	}
	moves := make([]string, 0, length)
	last := -1
	for len(moves) < length {
		face := g.rnd.Intn(len(faces))
		if face == last {
			continue
		}
		last = face
		moves = append(moves, faces[face]+modifiers[g.rnd.Intn(len(modifiers))])
	}
	return strings.Join(moves, " ")
}
