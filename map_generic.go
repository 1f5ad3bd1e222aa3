package bpfld

import (
	"fmt"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/kernelsupport"
)

var _ BPFMap = (*BPFGenericMap)(nil)

// BPFGenericMap is a catch all map type which can be used for any map type for which no specialized type exists
// in this library. Because it is generic it lacks type specific features, the user is responsible for using
// operations which are valid for the underlying map type.
type BPFGenericMap struct {
	AbstractMap
}

func (m *BPFGenericMap) Load() error {
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
func (m *BPFGenericMap) Close() error {
	err := mapRegister.delete(m)
	if err != nil {
		return fmt.Errorf("map register: %w", err)
	}

	return m.close()
}

func (m *BPFGenericMap) Get(key interface{}, value interface{}) error {
	return m.get(key, value)
}

// GetBatch fills the keys and values array/slice with the keys and values inside the map up to a maximum of
// maxBatchSize entries. The keys and values array/slice must have at least a length of maxBatchSize.
// The key and value of an entry has the same index, so for example the value for keys[2] is in values[2].
// Count is the amount of entries returned, partial is true if not all elements of keys and values could be set.
func (m *BPFGenericMap) GetBatch(
	keys interface{},
	values interface{},
	maxBatchSize uint32,
) (
	count int,
	partial bool,
	err error,
) {
	return m.getBatch(keys, values, maxBatchSize)
}

func (m *BPFGenericMap) Set(key interface{}, value interface{}, flags bpfsys.BPFAttrMapElemFlags) error {
	return m.set(key, value, flags)
}

func (m *BPFGenericMap) SetBatch(
	keys interface{},
	values interface{},
	flags bpfsys.BPFAttrMapElemFlags,
	maxBatchSize uint32,
) (
	count int,
	err error,
) {
	return m.setBatch(keys, values, flags, maxBatchSize)
}

func (m *BPFGenericMap) Delete(key interface{}) error {
	return m.delete(key)
}

func (m *BPFGenericMap) DeleteBatch(
	keys interface{},
	maxBatchSize uint32,
) (
	count int,
	err error,
) {
	return m.deleteBatch(keys, maxBatchSize)
}

func (m *BPFGenericMap) GetAndDelete(key interface{}, value interface{}) error {
	return m.getAndDelete(key, value)
}

func (m *BPFGenericMap) GetAndDeleteBatch(
	keys interface{},
	values interface{},
	maxBatchSize uint32,
) (
	count int,
	err error,
) {
	return m.getAndDeleteBatch(keys, values, maxBatchSize)
}

func (m *BPFGenericMap) Iterator() MapIterator {
	// If the kernel doesn't have support for batch lookup, use single lookup
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapLookupBatch) {
		return &singleLookupIterator{
			BPFMap: m,
		}
	}

	// The batch lookup iterator doesn't handle the multiplied value buffers of per-cpu maps
	if m.isPerCPUMap() {
		return &singleLookupIterator{
			BPFMap: m,
		}
	}

	// If there is no reason not to use the batch lookup iterator, use it
	return &batchLookupIterator{
		BPFMap: m,
	}
}
