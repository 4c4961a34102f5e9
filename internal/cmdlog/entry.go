package cmdlog

import "time"

// Delimiter terminates every command.
const Delimiter = '\n'

// Entry is one sealed command including its trailing delimiter. Data is owned
// by the Log once appended and must not be modified afterwards.
type Entry struct {
	Seq  uint64
	Time time.Time
	Data []byte
}

// Len returns the entry size in bytes.
func (e Entry) Len() int { return len(e.Data) }

// Record is the mirrored form of an Entry.
type Record struct {
	Seq        uint64
	AppendedMs int64
	Data       []byte
}

func recordOf(e Entry) Record {
	return Record{Seq: e.Seq, AppendedMs: e.Time.UnixMilli(), Data: e.Data}
}

func entryOf(r Record) Entry {
	return Entry{Seq: r.Seq, Time: time.UnixMilli(r.AppendedMs), Data: r.Data}
}
