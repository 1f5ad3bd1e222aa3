package bpfld

import (
	"fmt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
)

var _ BPFMap = (*PerCPUHashMap)(nil)

// PerCPUHashMap is a hash map which stores an array of values for each key, the size of the array is equal to
// the CPU count returned by the runtime.NumCPU() function. Each CPU writes to its own slot which avoids
// contention between CPUs in the kernel.
type PerCPUHashMap struct {
	AbstractMap
}

func (m *PerCPUHashMap) Load() error {
	if m.Definition.Type != bpftypes.BPF_MAP_TYPE_PERCPU_HASH &&
		m.Definition.Type != bpftypes.BPF_MAP_TYPE_LRU_PERCPU_HASH {
		return fmt.Errorf("map type in definition must be BPF_MAP_TYPE_PERCPU_HASH or " +
			"BPF_MAP_TYPE_LRU_PERCPU_HASH when using a PerCPUHashMap")
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
func (m *PerCPUHashMap) Close() error {
	err := mapRegister.delete(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return m.close()
}

// Get reads the values for a given key, one value per logical CPU. The value argument must be a pointer to an
// array or slice with at least runtime.NumCPU() elements, no aggregation across CPUs is done.
func (m *PerCPUHashMap) Get(key interface{}, value interface{}) error {
	return m.get(key, value)
}

func (m *PerCPUHashMap) Set(key interface{}, value interface{}, flags bpfsys.BPFAttrMapElemFlags) error {
	return m.set(key, value, flags)
}

func (m *PerCPUHashMap) Delete(key interface{}) error {
	return m.delete(key)
}

func (m *PerCPUHashMap) GetAndDelete(key interface{}, value interface{}) error {
	return m.getAndDelete(key, value)
}

func (m *PerCPUHashMap) Iterator() MapIterator {
	// The batch lookup iterator doesn't handle the multiplied value buffers of per-cpu maps,
	// so always use single lookup.
	return &singleLookupIterator{
		BPFMap: m,
	}
}
