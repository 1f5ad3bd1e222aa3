package bpfld

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Record header layout from 'struct bpf_ringbuf_hdr' in kernel/bpf/ringbuf.c.
// The length word carries two status bits in its high bits, the page offset
// word is only meaningful to the kernel.
const (
	ringbufHeaderSize = 8
	ringbufBusyBit    = uint32(1 << 31)
	ringbufDiscardBit = uint32(1 << 30)
)

var (
	errRingNoData  = errors.New("no data available in ring")
	errRingBusy    = errors.New("record not yet committed by the kernel")
	errRingDiscard = errors.New("record discarded by the kernel")

	// ErrRingCorrupt is returned when a record length prefix exceeds the size of the ring
	// data area. Once the length prefix can't be trusted the consumer position can't be
	// advanced safely, so the consumer that encounters this error stops.
	ErrRingCorrupt = errors.New("ring corrupt, record length prefix exceeds data area size")
)

// ringParser reads length-prefixed records from the circular data area shared with the
// kernel. The data area size is always a power of two so logical positions can be mapped
// to indexes with a mask. Records which straddle the end of the area wrap around to the
// start and are reassembled into a contiguous buffer before being returned.
//
// The parser only reads the producer position and only writes the consumer position, the
// kernel does the reverse. Position reads and writes go through atomics since both sides
// can touch them concurrently.
type ringParser struct {
	prodPos *uint64
	consPos *uint64

	// logical consumer position, may be ahead of *consPos until commit is called
	cons uint64
	mask uint64
	data []byte
}

func newRingParser(consPos, prodPos *uint64, data []byte) (*ringParser, error) {
	if len(data) == 0 || len(data)&(len(data)-1) != 0 {
		return nil, fmt.Errorf("ring data area size must be a non-zero power of two, got %d", len(data))
	}

	return &ringParser{
		prodPos: prodPos,
		consPos: consPos,
		cons:    atomic.LoadUint64(consPos),
		mask:    uint64(len(data) - 1),
		data:    data,
	}, nil
}

// copyAt copies len(buf) bytes starting at the given logical position, reassembling
// records which wrap around the end of the data area.
func (rp *ringParser) copyAt(buf []byte, pos uint64) {
	start := int(pos & rp.mask)
	n := copy(buf, rp.data[start:])
	if n < len(buf) {
		copy(buf[n:], rp.data)
	}
}

// next parses the record at the current consumer position and returns a copy of its
// payload. It advances the logical consumer position past the record but does not
// publish it, callers signal the kernel to reclaim the space by calling commit after
// they are done with the record.
//
// Discarded records are skipped and committed internally. errRingBusy means the next
// record has been reserved by the kernel but not yet committed, callers should retry
// from the same position later.
func (rp *ringParser) next() ([]byte, error) {
	prod := atomic.LoadUint64(rp.prodPos)
	if prod == rp.cons {
		return nil, errRingNoData
	}

	var hdr [ringbufHeaderSize]byte
	rp.copyAt(hdr[:], rp.cons)

	lenWord := binary.LittleEndian.Uint32(hdr[0:4])
	if lenWord&ringbufBusyBit != 0 {
		return nil, errRingBusy
	}

	recLen := lenWord &^ (ringbufBusyBit | ringbufDiscardBit)
	if uint64(recLen) > rp.mask+1-ringbufHeaderSize {
		return nil, fmt.Errorf("%w: length %d", ErrRingCorrupt, recLen)
	}

	// The kernel reserves records in 8 byte aligned units, header included
	total := ringbufHeaderSize + (uint64(recLen)+7)&^uint64(7)

	if lenWord&ringbufDiscardBit != 0 {
		rp.cons += total
		rp.commit()
		return nil, errRingDiscard
	}

	payload := make([]byte, recLen)
	rp.copyAt(payload, rp.cons+ringbufHeaderSize)
	rp.cons += total

	return payload, nil
}

// commit publishes the consumer position to the kernel with a release store, after
// which the kernel may overwrite the consumed bytes.
func (rp *ringParser) commit() {
	atomic.StoreUint64(rp.consPos, rp.cons)
}

// RingBufBackpressurePolicy decides what the drain goroutine does when the queue
// between it and the process goroutine is full.
type RingBufBackpressurePolicy int

const (
	// DropAndCount discards the record and increments the dropped counter. This is the
	// default since it turns overload into a bounded, observable loss. Blocking the
	// drainer instead lets the kernel ring itself overflow, which loses records without
	// any userspace-visible count.
	DropAndCount RingBufBackpressurePolicy = iota
	// BlockDrainer blocks the drain goroutine until the process goroutine catches up.
	BlockDrainer
)

// Reader state, transitions only move forward.
const (
	ringBufCreated int32 = iota
	ringBufRunning
	ringBufDraining
	ringBufClosed
)

// ErrRingStopTimeout is returned by Stop when the consumer goroutines don't exit
// within the configured timeout. The mapped region is left intact in that case since
// unmapping under a running consumer would fault it.
var ErrRingStopTimeout = errors.New("ring consumer did not stop within timeout")

type RingBufOpts struct {
	// Callback is invoked for every record, in the order the kernel wrote them.
	// Required.
	Callback func(record []byte)
	// ErrorCallback is invoked when the consumer hits a fatal error like a corrupt
	// length prefix. Optional, the error is also available via Err.
	ErrorCallback func(err error)
	// QueueSize, when non-zero, enables the backpressure variant: a drain goroutine
	// empties the kernel ring as fast as possible into a bounded queue of this size
	// and a separate process goroutine runs the callback. When zero a single
	// goroutine drains and calls back inline.
	QueueSize int
	// Policy picks the full-queue behavior, only used when QueueSize is non-zero.
	Policy RingBufBackpressurePolicy
	// PollTimeout bounds how long a poll waits for new data before re-checking for
	// shutdown. Defaults to 100ms.
	PollTimeout time.Duration
	// StopTimeout bounds how long Stop waits for the consumer goroutines to exit.
	// Defaults to 5s.
	StopTimeout time.Duration
	// Logger for the background goroutines. Defaults to a no-op logger.
	Logger *zap.Logger
}

// RingBufStats are counters kept by a RingBufReader.
type RingBufStats struct {
	// Delivered is the number of records handed to the callback.
	Delivered uint64
	// Dropped is the number of records discarded by the DropAndCount policy.
	Dropped uint64
}

// RingBufReader consumes records from a mmap'd ring buffer map on one or two
// background goroutines. Readers are created with RingBufMap.Open.
type RingBufReader struct {
	opts   RingBufOpts
	logger *zap.Logger
	parser *ringParser

	// mmap'd regions, unmapped on Stop
	consMem []byte
	prodMem []byte

	epollFD int
	wakeFD  int

	state    int32
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	queue    chan []byte

	delivered uint64
	dropped   uint64

	errMu    sync.Mutex
	fatalErr error
}

func newRingBufReader(parser *ringParser, consMem, prodMem []byte, epollFD, wakeFD int, opts RingBufOpts) *RingBufReader {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 100 * time.Millisecond
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := &RingBufReader{
		opts:    opts,
		logger:  opts.Logger,
		parser:  parser,
		consMem: consMem,
		prodMem: prodMem,
		epollFD: epollFD,
		wakeFD:  wakeFD,
		state:   ringBufCreated,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if opts.QueueSize > 0 {
		r.queue = make(chan []byte, opts.QueueSize)
	}

	return r
}

// start transitions the reader to running and spawns the consumer goroutine(s).
func (r *RingBufReader) start() {
	atomic.StoreInt32(&r.state, ringBufRunning)

	if r.queue == nil {
		go func() {
			defer close(r.done)
			r.drainLoop(r.deliver)
		}()
		return
	}

	processDone := make(chan struct{})
	go func() {
		defer close(processDone)
		for record := range r.queue {
			r.deliver(record)
		}
	}()
	go func() {
		defer close(r.done)
		r.drainLoop(r.enqueue)
		close(r.queue)
		<-processDone
	}()
}

func (r *RingBufReader) deliver(record []byte) bool {
	r.opts.Callback(record)
	atomic.AddUint64(&r.delivered, 1)
	return true
}

func (r *RingBufReader) enqueue(record []byte) bool {
	if r.opts.Policy == BlockDrainer {
		select {
		case r.queue <- record:
			return true
		case <-r.stop:
			return false
		}
	}

	select {
	case r.queue <- record:
	default:
		atomic.AddUint64(&r.dropped, 1)
	}
	return true
}

// drainLoop polls the ring until the reader leaves the running state or a fatal
// parse error occurs.
func (r *RingBufReader) drainLoop(emit func([]byte) bool) {
	events := make([]unix.EpollEvent, 2)
	timeoutMs := int(r.opts.PollTimeout.Milliseconds())

	for atomic.LoadInt32(&r.state) == ringBufRunning {
		n, err := unix.EpollWait(r.epollFD, events, timeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			r.setFatal(fmt.Errorf("epoll wait: %w", err))
			return
		}

		// A wakeup from Stop means the state already changed, re-check before
		// touching the ring so no new records are started while draining.
		if n == 0 && atomic.LoadInt32(&r.state) != ringBufRunning {
			return
		}

		if err := r.drainAvailable(emit); err != nil {
			r.setFatal(err)
			return
		}
	}

	// Draining, finish whatever the kernel committed before the stop request.
	if err := r.drainAvailable(emit); err != nil {
		r.setFatal(err)
	}
}

// drainAvailable parses and emits records until the ring has no complete committed
// record left. The consumer position is published only after emit returns, so the
// kernel can't reclaim bytes a callback is still looking at.
func (r *RingBufReader) drainAvailable(emit func([]byte) bool) error {
	for {
		record, err := r.parser.next()
		switch {
		case err == nil:
			if !emit(record) {
				return nil
			}
			r.parser.commit()
		case errors.Is(err, errRingDiscard):
			continue
		case errors.Is(err, errRingNoData), errors.Is(err, errRingBusy):
			return nil
		default:
			return err
		}
	}
}

func (r *RingBufReader) setFatal(err error) {
	r.errMu.Lock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
	r.errMu.Unlock()

	atomic.StoreInt32(&r.state, ringBufDraining)

	r.logger.Error("ring consumer stopped", zap.Error(err))
	if r.opts.ErrorCallback != nil {
		r.opts.ErrorCallback(err)
	}
}

// Err returns the fatal error that stopped the consumer, if any.
func (r *RingBufReader) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.fatalErr
}

// Stats returns a snapshot of the delivery counters.
func (r *RingBufReader) Stats() RingBufStats {
	return RingBufStats{
		Delivered: atomic.LoadUint64(&r.delivered),
		Dropped:   atomic.LoadUint64(&r.dropped),
	}
}

// Stop asks the consumer goroutine(s) to finish the records already committed to the
// ring and waits for them to exit, bounded by StopTimeout. On success the mapped
// regions are unmapped and the epoll descriptor closed. The map itself stays loaded,
// closing it is up to the owning RingBufMap.
func (r *RingBufReader) Stop() error {
	state := atomic.LoadInt32(&r.state)
	if state == ringBufClosed {
		return nil
	}

	atomic.CompareAndSwapInt32(&r.state, ringBufRunning, ringBufDraining)
	r.stopOnce.Do(func() {
		close(r.stop)
		// Wake the poller so it notices the state change right away.
		var one [8]byte
		one[0] = 1
		_, err := unix.Write(r.wakeFD, one[:])
		if err != nil {
			r.logger.Warn("ring stop wakeup", zap.Error(err))
		}
	})

	timer := time.NewTimer(r.opts.StopTimeout)
	defer timer.Stop()
	select {
	case <-r.done:
	case <-timer.C:
		return ErrRingStopTimeout
	}

	stats := r.Stats()
	r.logger.Debug("ring consumer closed",
		zap.Uint64("delivered", stats.Delivered),
		zap.Uint64("dropped", stats.Dropped),
	)

	atomic.StoreInt32(&r.state, ringBufClosed)

	var firstErr error
	if err := unix.Munmap(r.prodMem); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("munmap producer region: %w", err)
	}
	if err := unix.Munmap(r.consMem); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("munmap consumer region: %w", err)
	}
	if err := unix.Close(r.epollFD); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close epoll fd: %w", err)
	}
	if err := unix.Close(r.wakeFD); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close wakeup fd: %w", err)
	}

	return firstErr
}
