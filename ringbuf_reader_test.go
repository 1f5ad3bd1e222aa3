package bpfld

import (
	"encoding/binary"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/go-quicktest/qt"
)

// testRing is an in-memory stand-in for the kernel side of a ring buffer map. It
// writes records with the same wire format the kernel uses so the parser can be
// exercised without loading anything into a kernel.
type testRing struct {
	cons uint64
	prod uint64
	data []byte
}

func newTestRing(size int) *testRing {
	return &testRing{data: make([]byte, size)}
}

func (tr *testRing) parser(t *testing.T) *ringParser {
	t.Helper()
	rp, err := newRingParser(&tr.cons, &tr.prod, tr.data)
	qt.Assert(t, qt.IsNil(err))
	return rp
}

// writeAt writes buf at the given logical position, wrapping around the end of the
// data area like a kernel producer would.
func (tr *testRing) writeAt(buf []byte, pos uint64) {
	start := int(pos & uint64(len(tr.data)-1))
	n := copy(tr.data[start:], buf)
	if n < len(buf) {
		copy(tr.data, buf[n:])
	}
}

// produce commits a single record. statusBits can set the busy or discard bit on the
// length word. The returned position is where the record's header was written.
func (tr *testRing) produce(payload []byte, statusBits uint32) uint64 {
	var hdr [ringbufHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(payload))|statusBits)

	pos := tr.prod
	tr.writeAt(hdr[:], pos)
	tr.writeAt(payload, pos+ringbufHeaderSize)

	total := ringbufHeaderSize + (uint64(len(payload))+7)&^uint64(7)
	atomic.StoreUint64(&tr.prod, pos+total)

	return pos
}

func (tr *testRing) setLenWord(pos uint64, lenWord uint32) {
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], lenWord)
	tr.writeAt(word[:], pos)
}

func TestRingParserInOrder(t *testing.T) {
	tr := newTestRing(4096)
	payloads := [][]byte{
		[]byte("first"),
		[]byte("second record"),
		[]byte("x"),
	}
	for _, p := range payloads {
		tr.produce(p, 0)
	}

	rp := tr.parser(t)
	for _, want := range payloads {
		got, err := rp.next()
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.DeepEquals(got, want))
		rp.commit()
	}

	_, err := rp.next()
	qt.Assert(t, qt.ErrorIs(err, errRingNoData))
	qt.Assert(t, qt.Equals(atomic.LoadUint64(&tr.cons), atomic.LoadUint64(&tr.prod)))
}

func TestRingParserWrappedRecord(t *testing.T) {
	tr := newTestRing(256)

	// Walk the positions up close to the end of the data area so the next record
	// has to wrap around.
	filler := make([]byte, 56)
	for i := 0; i < 3; i++ {
		tr.produce(filler, 0)
	}

	rp := tr.parser(t)
	for i := 0; i < 3; i++ {
		_, err := rp.next()
		qt.Assert(t, qt.IsNil(err))
		rp.commit()
	}

	wrapped := make([]byte, 100)
	for i := range wrapped {
		wrapped[i] = byte(i)
	}
	tr.produce(wrapped, 0)

	got, err := rp.next()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, wrapped))
}

func TestRingParserBusyRecord(t *testing.T) {
	tr := newTestRing(4096)
	pos := tr.produce([]byte("pending"), ringbufBusyBit)

	rp := tr.parser(t)

	// Not committed yet, the parser must retry from the same position.
	_, err := rp.next()
	qt.Assert(t, qt.ErrorIs(err, errRingBusy))
	qt.Assert(t, qt.Equals(rp.cons, uint64(0)))

	tr.setLenWord(pos, uint32(len("pending")))

	got, err := rp.next()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte("pending")))
}

func TestRingParserDiscardedRecord(t *testing.T) {
	tr := newTestRing(4096)
	tr.produce([]byte("dropped by kernel"), ringbufDiscardBit)
	tr.produce([]byte("kept"), 0)

	rp := tr.parser(t)

	_, err := rp.next()
	qt.Assert(t, qt.ErrorIs(err, errRingDiscard))

	got, err := rp.next()
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, []byte("kept")))
}

func TestRingParserCorruptLength(t *testing.T) {
	tr := newTestRing(4096)
	pos := tr.produce([]byte("ok"), 0)
	tr.setLenWord(pos, 1<<20)

	rp := tr.parser(t)
	_, err := rp.next()
	qt.Assert(t, qt.ErrorIs(err, ErrRingCorrupt))
}

func TestRingParserCommitPublishes(t *testing.T) {
	tr := newTestRing(4096)
	tr.produce([]byte("abcdefgh"), 0)

	rp := tr.parser(t)
	_, err := rp.next()
	qt.Assert(t, qt.IsNil(err))

	// The consumer position must not be visible to the producer side until commit.
	qt.Assert(t, qt.Equals(atomic.LoadUint64(&tr.cons), uint64(0)))
	rp.commit()
	qt.Assert(t, qt.Equals(atomic.LoadUint64(&tr.cons), uint64(16)))
}

func TestRingParserRejectsBadSize(t *testing.T) {
	_, err := newRingParser(new(uint64), new(uint64), make([]byte, 100))
	qt.Assert(t, qt.IsNotNil(err))

	_, err = newRingParser(new(uint64), new(uint64), nil)
	qt.Assert(t, qt.IsNotNil(err))
}

func TestRingReaderDropAndCount(t *testing.T) {
	tr := newTestRing(4096)
	payloads := [][]byte{
		[]byte("one"), []byte("two"), []byte("three"), []byte("four"), []byte("five"),
	}
	for _, p := range payloads {
		tr.produce(p, 0)
	}

	r := newRingBufReader(tr.parser(t), nil, nil, -1, -1, RingBufOpts{
		Callback:  func([]byte) {},
		QueueSize: 2,
		Policy:    DropAndCount,
	})

	err := r.drainAvailable(r.enqueue)
	qt.Assert(t, qt.IsNil(err))

	// The queue holds the two oldest records, everything after that is a tail drop.
	qt.Assert(t, qt.Equals(r.Stats().Dropped, uint64(3)))
	qt.Assert(t, qt.DeepEquals(<-r.queue, []byte("one")))
	qt.Assert(t, qt.DeepEquals(<-r.queue, []byte("two")))
}

func TestRingReaderDirectDelivery(t *testing.T) {
	tr := newTestRing(4096)
	payloads := [][]byte{[]byte("r1"), []byte("r2"), []byte("r3")}
	for _, p := range payloads {
		tr.produce(p, 0)
	}

	var got [][]byte
	r := newRingBufReader(tr.parser(t), nil, nil, -1, -1, RingBufOpts{
		Callback: func(record []byte) {
			got = append(got, record)
		},
	})

	err := r.drainAvailable(r.deliver)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(got, payloads))
	qt.Assert(t, qt.Equals(r.Stats().Delivered, uint64(3)))
	qt.Assert(t, qt.Equals(atomic.LoadUint64(&tr.cons), atomic.LoadUint64(&tr.prod)))
}

func TestRingReaderFatalOnCorruptRecord(t *testing.T) {
	tr := newTestRing(4096)
	pos := tr.produce([]byte("ok"), 0)
	tr.setLenWord(pos, 1<<20)

	var cbErr error
	r := newRingBufReader(tr.parser(t), nil, nil, -1, -1, RingBufOpts{
		Callback:      func([]byte) {},
		ErrorCallback: func(err error) { cbErr = err },
	})

	err := r.drainAvailable(r.deliver)
	qt.Assert(t, qt.ErrorIs(err, ErrRingCorrupt))

	r.setFatal(err)
	qt.Assert(t, qt.ErrorIs(r.Err(), ErrRingCorrupt))
	qt.Assert(t, qt.IsTrue(errors.Is(cbErr, ErrRingCorrupt)))
	qt.Assert(t, qt.Equals(atomic.LoadInt32(&r.state), ringBufDraining))
}
