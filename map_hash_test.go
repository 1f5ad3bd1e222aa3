//go:build bpftests
// +build bpftests

package bpfld

import (
	"testing"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/kernelsupport"
)

// Tests that a batch update which runs into a full map reports how many entries the
// kernel applied and that exactly those entries are visible via individual lookups
func TestHashMap_BatchUpdate_PartialFailure(t *testing.T) {
	// We can only perform this test if the kernel we are running on supports it
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapUpdateBatch) {
		t.Skip("Skip because the feature is not supported by current kernel version")
	}

	const maxEntries = 5
	const batchSize = 10

	hashMap := HashMap{
		AbstractMap: AbstractMap{
			Name: MustNewObjName("test"),
			Definition: BPFMapDef{
				Type:       bpftypes.BPF_MAP_TYPE_HASH,
				KeySize:    sizeOfUint32,
				ValueSize:  sizeOfUint64,
				MaxEntries: maxEntries,
			},
		},
	}

	err := hashMap.Load()
	if err != nil {
		t.Fatal(err)
	}

	keys := make([]uint32, batchSize)
	values := make([]uint64, batchSize)
	for i := 0; i < batchSize; i++ {
		keys[i] = uint32(i + 1)
		values[i] = uint64(i+1) * 10
	}

	count, err := hashMap.SetBatch(&keys, &values, bpfsys.BPFMapElemAny, batchSize)
	if err == nil {
		t.Fatal("batch update past max_entries didn't result in an error")
	}
	if count >= batchSize {
		t.Fatalf("expected a partial count, got %d", count)
	}
	if count > maxEntries {
		t.Fatalf("count %d exceeds max_entries %d", count, maxEntries)
	}

	// The kernel processes the batch in order, every entry up to the reported count
	// must have been applied.
	for i := 0; i < count; i++ {
		var v uint64
		err = hashMap.Get(&keys[i], &v)
		if err != nil {
			t.Fatalf("key %d reported as applied but lookup failed: %v", keys[i], err)
		}
		if v != values[i] {
			t.Fatalf("key %d has value %d, expected %d", keys[i], v, values[i])
		}
	}

	// And nothing past the reported count may be present.
	for i := count; i < batchSize; i++ {
		var v uint64
		err = hashMap.Get(&keys[i], &v)
		if err == nil {
			t.Fatalf("key %d past the reported count is present in the map", keys[i])
		}
	}

	err = hashMap.Close()
	if err != nil {
		t.Fatal(err)
	}
}
