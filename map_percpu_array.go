package bpfld

import (
	"fmt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/kernelsupport"
)

var _ BPFMap = (*PerCPUArrayMap)(nil)

// PerCPUArrayMap is a map which has an integer key from 0 to MaxEntries. It is a generic map type so the value can be
// any type. This map type stores an array of values for each key, the size of the array is equal to the CPU count
// returned by the runtime.NumCPU() function.
type PerCPUArrayMap struct {
	AbstractMap
}

func (m *PerCPUArrayMap) Load() error {
	if m.Definition.Type != bpftypes.BPF_MAP_TYPE_PERCPU_ARRAY {
		return fmt.Errorf("map type in definition must be BPF_MAP_TYPE_PERCPU_ARRAY when using a PerCPUArrayMap")
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
func (m *PerCPUArrayMap) Close() error {
	err := mapRegister.delete(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return m.close()
}

// Get reads the values for a given key, one value per logical CPU. The value argument must be a pointer to an
// array or slice with at least runtime.NumCPU() elements, no aggregation across CPUs is done.
func (m *PerCPUArrayMap) Get(key uint32, value interface{}) error {
	return m.get(&key, value)
}

// GetBatch fills the keys slice and values array/slice with the keys and values inside the map.
// The values array/slice must have a length of at least len(keys) * runtime.NumCPU() since each entry has
// one value per logical CPU. Count is the amount of entries returned, partial is true if not all elements of
// keys and values could be set.
func (m *PerCPUArrayMap) GetBatch(
	keys []uint32,
	values interface{},
) (
	count int,
	partial bool,
	err error,
) {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapLookupBatch) {
		return 0,
			false,
			fmt.Errorf("batch get operation on per CPU array maps: %w", bpfsys.ErrNotSupported)
	}

	keysLen := len(keys)

	// Very unlikely, but we have to check
	if keysLen > maxUint32 {
		return 0, false, fmt.Errorf("max len of 'keys' allowed is %d", maxUint32)
	}

	return m.getBatch(&keys, values, uint32(keysLen))
}

func (m *PerCPUArrayMap) Set(key uint32, value interface{}, flags bpfsys.BPFAttrMapElemFlags) error {
	return m.set(&key, value, flags)
}

func (m *PerCPUArrayMap) SetBatch(
	keys []uint32,
	values interface{},
	flags bpfsys.BPFAttrMapElemFlags,
) (
	count int,
	err error,
) {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapUpdateBatch) {
		return 0, fmt.Errorf("batch set operation on per CPU array maps: %w", bpfsys.ErrNotSupported)
	}

	keysLen := len(keys)

	// Very unlikely, but we have to check
	if keysLen > maxUint32 {
		return 0, fmt.Errorf("max len of 'keys' allowed is %d", maxUint32)
	}

	return m.setBatch(&keys, values, flags, uint32(keysLen))
}

func (m *PerCPUArrayMap) Iterator() MapIterator {
	// The batch lookup iterator doesn't handle the multiplied value buffers of per-cpu maps,
	// so always use single lookup.
	return &singleLookupIterator{
		BPFMap: m,
	}
}
