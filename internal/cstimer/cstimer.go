// Package cstimer loads csTimer JSON exports.
package cstimer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/cubestats/internal/model"
)

// ErrMalformed is returned for exports that do not match the csTimer layout.
var ErrMalformed = errors.New("malformed csTimer export")

const (
	penaltyDNF   = -1
	penaltyPlus2 = 2000

	defaultScrType = "3x3"
	sessionPrefix  = "session"
)

// Options controls how an export is interpreted.
type Options struct {
	// Location is used for calendar-based statistics. Defaults to time.Local.
	Location *time.Location
	// Source is recorded on the batch, usually the file path.
	Source string
	// Now is used for Batch.LoadedAt. Defaults to time.Now.
	Now func() time.Time
}

type sessionMeta struct {
	Name json.RawMessage `json:"name"`
	Opt  struct {
		ScrType string `json:"scrType"`
	} `json:"opt"`
}

// LoadFile reads and parses an export from disk.
func LoadFile(path string, opts Options) (model.Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Batch{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only export.
			_ = cerr
		}
	}()
	if opts.Source == "" {
		opts.Source = path
	}
	return Load(file, opts)
}

// Load parses a csTimer export into a batch. Sessions are ordered by id.
func Load(r io.Reader, opts Options) (model.Batch, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return model.Batch{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	metas, err := parseSessionData(raw)
	if err != nil {
		return model.Batch{}, err
	}

	ids := make([]int, 0, len(metas))
	for id := range metas {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	sessions := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		meta := metas[id]
		key := sessionPrefix + strconv.Itoa(id)
		solves, err := parseSolves(raw[key], loc)
		if err != nil {
			return model.Batch{}, fmt.Errorf("%s: %w", key, err)
		}
		scrType := meta.Opt.ScrType
		if scrType == "" {
			scrType = defaultScrType
		}
		sessions = append(sessions, model.Session{
			ID:       id,
			Name:     "Session " + sessionName(meta.Name, id),
			Category: scrType,
			Solves:   solves,
		})
	}

	return model.Batch{
		ID:       uuid.New(),
		Source:   opts.Source,
		LoadedAt: now(),
		Location: loc,
		Sessions: sessions,
	}, nil
}

func parseSessionData(raw map[string]json.RawMessage) (map[int]sessionMeta, error) {
	propsRaw, ok := raw["properties"]
	if !ok {
		return nil, fmt.Errorf("%w: missing properties", ErrMalformed)
	}
	var props map[string]json.RawMessage
	if err := json.Unmarshal(propsRaw, &props); err != nil {
		return nil, fmt.Errorf("%w: properties: %v", ErrMalformed, err)
	}
	dataRaw, ok := props["sessionData"]
	if !ok {
		return nil, fmt.Errorf("%w: missing properties.sessionData", ErrMalformed)
	}
	// sessionData is a JSON document stored as a string.
	var encoded string
	if err := json.Unmarshal(dataRaw, &encoded); err != nil {
		return nil, fmt.Errorf("%w: sessionData is not a string: %v", ErrMalformed, err)
	}
	var byID map[string]sessionMeta
	if err := json.Unmarshal([]byte(encoded), &byID); err != nil {
		return nil, fmt.Errorf("%w: sessionData: %v", ErrMalformed, err)
	}
	out := make(map[int]sessionMeta, len(byID))
	for key, meta := range byID {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: session id %q is not numeric", ErrMalformed, key)
		}
		out[id] = meta
	}
	return out, nil
}

func sessionName(raw json.RawMessage, id int) string {
	if len(raw) == 0 || string(raw) == "null" {
		return strconv.Itoa(id)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return string(raw)
}

func parseSolves(raw json.RawMessage, loc *time.Location) ([]model.Solve, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: solves: %v", ErrMalformed, err)
	}
	solves := make([]model.Solve, 0, len(records))
	for i, rec := range records {
		solve, err := parseSolve(rec, loc)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		solves = append(solves, solve)
	}
	return solves, nil
}

// parseSolve decodes [[penalty, ms], scramble, comment, unix_seconds, ...].
func parseSolve(raw json.RawMessage, loc *time.Location) (model.Solve, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Solve{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(fields) < 4 {
		return model.Solve{}, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrMalformed, len(fields))
	}
	var timing []float64
	if err := json.Unmarshal(fields[0], &timing); err != nil || len(timing) < 2 {
		return model.Solve{}, fmt.Errorf("%w: invalid [penalty, ms] pair", ErrMalformed)
	}
	var scramble, comment string
	if err := json.Unmarshal(fields[1], &scramble); err != nil {
		return model.Solve{}, fmt.Errorf("%w: scramble: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(fields[2], &comment); err != nil {
		return model.Solve{}, fmt.Errorf("%w: comment: %v", ErrMalformed, err)
	}
	var unix float64
	if err := json.Unmarshal(fields[3], &unix); err != nil {
		return model.Solve{}, fmt.Errorf("%w: timestamp: %v", ErrMalformed, err)
	}

	penaltyCode := int(timing[0])
	elapsed := timing[1] / 1000
	penalty := model.PenaltyNone
	switch penaltyCode {
	case penaltyDNF:
		penalty = model.PenaltyDNF
		elapsed = model.DNF
	case penaltyPlus2:
		penalty = model.PenaltyPlus2
		elapsed += 2
	}

	sec := int64(unix)
	nsec := int64((unix - float64(sec)) * 1e9)
	return model.Solve{
		Elapsed:   elapsed,
		Timestamp: time.Unix(sec, nsec).In(loc),
		Penalty:   penalty,
		Scramble:  scramble,
		Comment:   comment,
	}, nil
}
