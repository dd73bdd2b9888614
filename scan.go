package kvmap

import (
	"bytes"
	"context"
	"log/slog"
)

const (
	debugLogRawScans = false
)

// rawRange is a half-open [Lower, Upper) byte range with a direction. A nil
// bound is open.
type rawRange struct {
	Lower   []byte
	Upper   []byte
	Reverse bool
}

func (r *rawRange) start(bcur storageCursor, logger *slog.Logger) ([]byte, []byte) {
	var k, v []byte
	if r.Reverse {
		if r.Upper != nil {
			// position on the first key >= upper, then step back once
			k, v = bcur.Seek(r.Upper)
			if debugLogRawScans {
				logger.LogAttrs(context.Background(), slog.LevelDebug, "SEEK to upper", hexAttr("upper", r.Upper), hexAttr("key", k), hexAttr("val", v))
			}
			if k == nil {
				k, v = bcur.Last()
			} else {
				k, v = bcur.Prev()
			}
		} else {
			k, v = bcur.Last()
			if debugLogRawScans {
				logger.LogAttrs(context.Background(), slog.LevelDebug, "LAST", hexAttr("key", k), hexAttr("val", v))
			}
		}
	} else {
		if r.Lower != nil {
			k, v = bcur.Seek(r.Lower)
			if debugLogRawScans {
				logger.LogAttrs(context.Background(), slog.LevelDebug, "SEEK to lower", hexAttr("lower", r.Lower), hexAttr("key", k), hexAttr("val", v))
			}
		} else {
			k, v = bcur.First()
			if debugLogRawScans {
				logger.LogAttrs(context.Background(), slog.LevelDebug, "FIRST", hexAttr("key", k), hexAttr("val", v))
			}
		}
	}
	if k != nil && r.match(k, v, logger) {
		return k, v
	}
	return nil, nil
}

func (r *rawRange) next(bcur storageCursor, logger *slog.Logger) ([]byte, []byte) {
	var k, v []byte
	if r.Reverse {
		k, v = bcur.Prev()
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "PREV", hexAttr("key", k), hexAttr("val", v))
		}
	} else {
		k, v = bcur.Next()
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "NEXT", hexAttr("key", k), hexAttr("val", v))
		}
	}
	if k != nil && r.match(k, v, logger) {
		return k, v
	}
	return nil, nil
}

func (r *rawRange) match(k, v []byte, logger *slog.Logger) bool {
	if lower := r.Lower; lower != nil && bytes.Compare(k, lower) < 0 {
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "BAIL on lower", hexAttr("lower", lower), hexAttr("key", k), hexAttr("val", v))
		}
		return false
	}
	if upper := r.Upper; upper != nil && bytes.Compare(k, upper) >= 0 {
		if debugLogRawScans {
			logger.LogAttrs(context.Background(), slog.LevelDebug, "BAIL on upper", hexAttr("upper", upper), hexAttr("key", k), hexAttr("val", v))
		}
		return false
	}
	if debugLogRawScans {
		logger.LogAttrs(context.Background(), slog.LevelDebug, "MATCH", hexAttr("key", k), hexAttr("val", v))
	}
	return true
}

// mutationCounter is embedded by backends so that live iterators can detect
// writes to the same handle.
type mutationCounter struct {
	mutations uint64
}

func (mc *mutationCounter) mutated() {
	mc.mutations++
}

// rangeIterator adapts a storageCursor and a rawRange to Iterator.
type rangeIterator struct {
	rang    rawRange
	bcur    storageCursor
	logger  *slog.Logger
	counter *mutationCounter
	version uint64
	k, v    []byte
	init    bool
	done    bool
	err     error
}

func newRangeIterator(bcur storageCursor, min, max []byte, order Order, counter *mutationCounter, logger *slog.Logger) *rangeIterator {
	if logger == nil {
		logger = slog.Default()
	}
	it := &rangeIterator{
		rang:    rawRange{Lower: min, Upper: max, Reverse: order == Descending},
		bcur:    bcur,
		logger:  logger,
		counter: counter,
	}
	if counter != nil {
		it.version = counter.mutations
	}
	if min != nil && max != nil && bytes.Compare(min, max) >= 0 {
		it.finish()
	}
	return it
}

func (it *rangeIterator) Next() bool {
	if it.done {
		return false
	}
	if it.counter != nil && it.counter.mutations != it.version {
		it.err = ErrMutatedDuringScan
		it.finish()
		return false
	}
	if it.init {
		it.k, it.v = it.rang.next(it.bcur, it.logger)
	} else {
		it.init = true
		it.k, it.v = it.rang.start(it.bcur, it.logger)
	}
	if it.k == nil {
		it.finish()
		return false
	}
	return true
}

func (it *rangeIterator) finish() {
	it.done = true
	it.k, it.v = nil, nil
	if it.bcur != nil {
		it.bcur.Close()
		it.bcur = nil
	}
}

func (it *rangeIterator) Key() []byte   { return it.k }
func (it *rangeIterator) Value() []byte { return it.v }
func (it *rangeIterator) Err() error    { return it.err }

func (it *rangeIterator) Close() error {
	it.finish()
	return nil
}

// errIterator is an Iterator that yields nothing and reports err.
type errIterator struct {
	err error
}

func (it errIterator) Next() bool    { return false }
func (it errIterator) Key() []byte   { return nil }
func (it errIterator) Value() []byte { return nil }
func (it errIterator) Err() error    { return it.err }
func (it errIterator) Close() error  { return nil }
