package demo

// Summary describes a fully walked stream.
type Summary struct {
	Records       int
	PayloadBytes  int
	ByCommand     map[Command]int
	FirstTick     int32
	LastTick      int32
	Stopped       bool
	UnexpectedEOF bool
	// Consumed is the number of stream bytes covered by yielded records.
	Consumed int
}

func (s *Summary) add(r Record) {
	if s.Records == 0 {
		s.FirstTick = r.Tick
	}
	s.Records++
	s.LastTick = r.Tick
	s.PayloadBytes += len(r.Payload)
	s.ByCommand[r.Command]++
}

// Walk drains stream, calling fn for every record. A framing error ends the
// walk with the summary of the valid prefix; an error from fn is returned
// unchanged.
func Walk(stream []byte, fn func(Record) error, opts ...Option) (Summary, error) {
	return Drain(NewIterator(stream, opts...), fn)
}

// Drain consumes the remaining records of it with the same rules as Walk.
func Drain(it *Iterator, fn func(Record) error) (Summary, error) {
	sum := Summary{ByCommand: make(map[Command]int)}
	for it.Next() {
		rec := it.Record()
		sum.add(rec)
		sum.Consumed = it.Offset()
		if fn != nil {
			if err := fn(rec); err != nil {
				return sum, err
			}
		}
	}
	sum.Stopped = it.Stopped()
	sum.UnexpectedEOF = it.UnexpectedEOF()
	return sum, it.Err()
}
