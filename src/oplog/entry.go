package oplog

import (
	"fmt"
	"strconv"
	"strings"
)

type Action int

const (
	ActionInsert Action = iota
	ActionDelete
	ActionSearch
)

// Actions lists every action in sampling order.
var Actions = []Action{ActionInsert, ActionDelete, ActionSearch}

// Verb is the wording used for the action in a log line.
func (a Action) Verb() string {
	switch a {
	case ActionInsert:
		return "Inserting"
	case ActionDelete:
		return "Deleting"
	case ActionSearch:
		return "Searching for"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionDelete:
		return "delete"
	case ActionSearch:
		return "search"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Entry describes one requested list operation.
type Entry struct {
	Worker int    // 1-based worker id
	Action Action // requested operation
	Value  int    // operand
}

// String renders the entry as a single log line without the trailing newline.
func (e Entry) String() string {
	return fmt.Sprintf("Thread %d: %s value: %d", e.Worker, e.Action.Verb(), e.Value)
}

const (
	linePrefix  = "Thread "
	valueMarker = " value: "
)

// ParseEntry is the inverse of Entry.String.
func ParseEntry(line string) (Entry, error) {
	rest, ok := strings.CutPrefix(line, linePrefix)
	if !ok {
		return Entry{}, fmt.Errorf("missing %q prefix in %q", linePrefix, line)
	}

	idRaw, rest, ok := strings.Cut(rest, ": ")
	if !ok {
		return Entry{}, fmt.Errorf("missing worker separator in %q", line)
	}
	worker, err := strconv.Atoi(idRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid worker id %q: %w", idRaw, err)
	}
	if worker < 1 {
		return Entry{}, fmt.Errorf("worker id must be >= 1, got %d", worker)
	}

	idx := strings.LastIndex(rest, valueMarker)
	if idx < 0 {
		return Entry{}, fmt.Errorf("missing %q in %q", strings.TrimSpace(valueMarker), line)
	}
	verb, valueRaw := rest[:idx], rest[idx+len(valueMarker):]

	value, err := strconv.Atoi(valueRaw)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid value %q: %w", valueRaw, err)
	}

	for _, a := range Actions {
		if a.Verb() == verb {
			return Entry{Worker: worker, Action: a, Value: value}, nil
		}
	}
	return Entry{}, fmt.Errorf("unknown action verb %q", verb)
}
