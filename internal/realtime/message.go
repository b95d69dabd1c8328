package realtime

import (
	"sort"
	"strings"
)

// Table names a logical entity set whose changes are pushed to clients.
type Table string

const (
	TableUser    Table = "user"
	TableEvent   Table = "event"
	TableCar     Table = "car"
	TableCheckIn Table = "checkin"
)

var knownTables = map[Table]struct{}{
	TableUser:    {},
	TableEvent:   {},
	TableCar:     {},
	TableCheckIn: {},
}

// ParseTables normalizes client supplied table names. Unknown names are
// returned separately so callers can reject them.
func ParseTables(names []string) (tables []Table, unknown []string) {
	for _, raw := range names {
		name := Table(strings.ToLower(strings.TrimSpace(raw)))
		if name == "" {
			continue
		}
		if _, ok := knownTables[name]; !ok {
			unknown = append(unknown, raw)
			continue
		}
		tables = append(tables, name)
	}
	return tables, unknown
}

// ChangeDescriptor records what a successful write changed. Data holds the
// affected rows for creates and updates, or DeletedIDs when Deleted is set.
type ChangeDescriptor struct {
	Table   Table `json:"table"`
	Data    any   `json:"data"`
	Deleted bool  `json:"deleted,omitempty"`
}

type DeletedIDs struct {
	IDs []any `json:"ids"`
}

// Rows builds a descriptor carrying full rows.
func Rows[T any](table Table, rows []T) ChangeDescriptor {
	if rows == nil {
		rows = []T{}
	}
	return ChangeDescriptor{Table: table, Data: rows}
}

// Deleted builds a descriptor carrying only the removed identifiers.
func Deleted(table Table, ids ...any) ChangeDescriptor {
	if ids == nil {
		ids = []any{}
	}
	return ChangeDescriptor{Table: table, Data: DeletedIDs{IDs: ids}, Deleted: true}
}

type EventName string

const (
	EventConnected  EventName = "connected"
	EventSubscribed EventName = "subscribed"
	EventUpdate     EventName = "update"
	EventNewData    EventName = "newdata"
)

// Message is one push frame. Update frames carry []ChangeDescriptor.
type Message struct {
	Event EventName `json:"event"`
	Data  any       `json:"data,omitempty"`
}

func sortedTables(set map[Table]struct{}) []Table {
	out := make([]Table, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
