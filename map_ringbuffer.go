package bpfld

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/kernelsupport"
	"golang.org/x/sys/unix"
)

var _ BPFMap = (*RingBufMap)(nil)

// RingBufMap is a BPF_MAP_TYPE_RINGBUF map. Unlike the other map types it holds no
// key/value entries, programs reserve and commit variable-size records into a circular
// buffer which userspace consumes through a RingBufReader. MaxEntries is the size of
// the data area in bytes and must be a power of two and a multiple of the page size.
type RingBufMap struct {
	AbstractMap
}

func (m *RingBufMap) Load() error {
	if m.Definition.Type != bpftypes.BPF_MAP_TYPE_RINGBUF {
		return fmt.Errorf("map type in definition must be BPF_MAP_TYPE_RINGBUF")
	}

	if !kernelsupport.CurrentFeatures.Map.Has(kernelsupport.KFeatMapRingBuffer) {
		return fmt.Errorf("ring buffer maps: %w", bpfsys.ErrNotSupported)
	}

	err := m.load(nil)
	if err != nil {
		return err
	}

	err = mapRegister.add(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return nil
}

// Close closes the file descriptor associated with the map, this will cause the map to unload from the kernel
// if it is not still in use by a eBPF program, bpf FS, or a userspace program still holding a fd to the map.
// Readers created with Open must be stopped before the map is closed.
func (m *RingBufMap) Close() error {
	err := mapRegister.delete(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return m.close()
}

// Open memory maps the ring, registers it with epoll and spawns the consumer
// goroutine(s) which invoke opts.Callback for every record the kernel commits.
// The returned reader is already running, call Stop to release its resources.
func (m *RingBufMap) Open(opts RingBufOpts) (*RingBufReader, error) {
	if !m.loaded {
		return nil, fmt.Errorf("can't open an unloaded ring buffer map")
	}

	if opts.Callback == nil {
		return nil, fmt.Errorf("opts.Callback is required")
	}

	pageSize := os.Getpagesize()
	size := int(m.definition.MaxEntries)

	// The consumer position page is the only part of the ring userspace may write.
	consMem, err := unix.Mmap(int(m.fd), 0, pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap consumer region: %w", err)
	}

	// Producer position page plus the data area. The kernel maps the data area twice
	// back to back, we only address the first copy and reassemble wrapped records
	// ourselves so the parser also works on plain buffers.
	prodMem, err := unix.Mmap(int(m.fd), int64(pageSize), pageSize+2*size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Munmap(consMem)
		return nil, fmt.Errorf("mmap producer region: %w", err)
	}

	consPos := (*uint64)(unsafe.Pointer(&consMem[0]))
	prodPos := (*uint64)(unsafe.Pointer(&prodMem[0]))

	parser, err := newRingParser(consPos, prodPos, prodMem[pageSize:pageSize+size])
	if err != nil {
		_ = unix.Munmap(prodMem)
		_ = unix.Munmap(consMem)
		return nil, err
	}

	epollFD, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		_ = unix.Munmap(prodMem)
		_ = unix.Munmap(consMem)
		return nil, fmt.Errorf("epoll create: %w", err)
	}

	wakeFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		_ = unix.Close(epollFD)
		_ = unix.Munmap(prodMem)
		_ = unix.Munmap(consMem)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	for _, fd := range []int{int(m.fd), wakeFD} {
		err = unix.EpollCtl(epollFD, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{
			Events: unix.EPOLLIN,
			Fd:     int32(fd),
		})
		if err != nil {
			_ = unix.Close(wakeFD)
			_ = unix.Close(epollFD)
			_ = unix.Munmap(prodMem)
			_ = unix.Munmap(consMem)
			return nil, fmt.Errorf("epoll add fd %d: %w", fd, err)
		}
	}

	reader := newRingBufReader(parser, consMem, prodMem, epollFD, wakeFD, opts)
	reader.start()

	return reader, nil
}
