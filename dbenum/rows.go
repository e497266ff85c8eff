// Package dbenum turns cursor/scroll-based database reads into Onum
// sources, the real-producer analogue of ioenum's file enumerator but
// for MySQL, ClickHouse, Elasticsearch, and MongoDB. Every enumerator
// here is an enum.Bracket around a driver-specific cursor or scroll,
// feeding enum.BuildOnum a SourceFunc that pages rows in batches: via
// PageRows for the SQL and MongoDB cursors, and one scroll page per pull
// for EnumElasticScroll.
package dbenum

// Row is one decoded record, keyed by column/field name.
type Row map[string]any

// Rows is a batch of decoded records — the Chunk payload dbenum deals
// in, demonstrating that the core chunk/Onum/Inum machinery is not
// byte-specific.
type Rows []Row

// Append concatenates two batches; it never mutates its receiver.
func (r Rows) Append(other Rows) Rows {
	if len(other) == 0 {
		return r
	}
	out := make(Rows, 0, len(r)+len(other))
	out = append(out, r...)
	out = append(out, other...)
	return out
}

// Null reports whether the batch is empty.
func (r Rows) Null() bool { return len(r) == 0 }
