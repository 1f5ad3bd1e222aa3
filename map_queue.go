package bpfld

import (
	"fmt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
)

var _ BPFMap = (*QueueMap)(nil)

// QueueMap is a specialized map type, it has no key type, only a value type. It works like any other FIFO queue.
type QueueMap struct {
	AbstractMap
}

func (m *QueueMap) Load() error {
	if m.Definition.Type != bpftypes.BPF_MAP_TYPE_QUEUE {
		return fmt.Errorf("map type in definition must be BPF_MAP_TYPE_QUEUE when using a QueueMap")
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
func (m *QueueMap) Close() error {
	err := mapRegister.delete(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return m.close()
}

// Enqueue adds a new value to the back of the queue.
func (m *QueueMap) Enqueue(value interface{}) error {
	if !m.loaded {
		return fmt.Errorf("can't write to an unloaded map")
	}

	attr := &bpfsys.BPFAttrMapElem{
		MapFD: m.fd,
		Flags: bpfsys.BPFMapElemAny,
	}

	var err error
	attr.Value_NextKey, err = m.toValuePtr(value)
	if err != nil {
		return err
	}

	err = bpfsys.MapUpdateElem(attr)
	if err != nil {
		return fmt.Errorf("bpf syscall error: %w", err)
	}

	return nil
}

// Peek reads the value at the front of the queue without removing it.
func (m *QueueMap) Peek(value interface{}) error {
	if !m.loaded {
		return fmt.Errorf("can't read from an unloaded map")
	}

	attr := &bpfsys.BPFAttrMapElem{
		MapFD: m.fd,
	}

	var err error
	attr.Value_NextKey, err = m.toValuePtr(value)
	if err != nil {
		return err
	}

	err = bpfsys.MapLookupElem(attr)
	if err != nil {
		return fmt.Errorf("bpf syscall error: %w", err)
	}

	return nil
}

// Dequeue returns the value at the front of the queue, removing it in the process.
func (m *QueueMap) Dequeue(value interface{}) error {
	if !m.loaded {
		return fmt.Errorf("can't read from an unloaded map")
	}

	attr := &bpfsys.BPFAttrMapElem{
		MapFD: m.fd,
	}

	var err error
	attr.Value_NextKey, err = m.toValuePtr(value)
	if err != nil {
		return err
	}

	err = bpfsys.MapLookupAndDeleteElem(attr)
	if err != nil {
		return fmt.Errorf("bpf syscall error: %w", err)
	}

	return nil
}

// Iterator returns a map iterator which can be used to loop over all values of the map.
// Looping over the queue will consume all values.
func (m *QueueMap) Iterator() MapIterator {
	return &lookupAndDeleteIterator{
		BPFMap: m,
	}
}
