//go:build bpftests
// +build bpftests

package bpfld

import (
	"testing"

	"github.com/probekit/bpfld/bpfsys"
	"github.com/probekit/bpfld/bpftypes"
)

const iterMapSize = 100000

var iterTestMap *BPFGenericMap

func getIterTestMap() *BPFGenericMap {
	if iterTestMap != nil {
		return iterTestMap
	}

	iterTestMap = &BPFGenericMap{
		AbstractMap: AbstractMap{
			Name: MustNewObjName("iter_test_map"),
			Definition: BPFMapDef{
				Type:       bpftypes.BPF_MAP_TYPE_ARRAY,
				KeySize:    sizeOfUint32,
				ValueSize:  sizeOfUint64,
				MaxEntries: iterMapSize,
			},
		},
	}

	err := iterTestMap.Load()
	if err != nil {
		panic(err)
	}

	for i := uint32(0); i < iterMapSize; i++ {
		val := uint64(i * 10)
		err = iterTestMap.Set(&i, &val, bpfsys.BPFMapElemAny)
		if err != nil {
			panic(err)
		}
	}

	return iterTestMap
}

func TestMapIterForEachVisitsAllEntries(t *testing.T) {
	tMap := getIterTestMap()

	var (
		key     uint32
		value   uint64
		visited int
	)
	err := MapIterForEach(tMap.Iterator(), &key, &value, func(k, v interface{}) error {
		gotKey := *k.(*uint32)
		gotValue := *v.(*uint64)
		if gotValue != uint64(gotKey)*10 {
			t.Fatalf("key %d has value %d, expected %d", gotKey, gotValue, uint64(gotKey)*10)
		}
		visited++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if visited != iterMapSize {
		t.Fatalf("visited %d entries, expected %d", visited, iterMapSize)
	}
}

func benchmarkBatchMapIterator(bufSize int, b *testing.B) {
	tMap := getIterTestMap()

	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		iter := batchLookupIterator{
			BPFMap:  tMap,
			BufSize: bufSize,
		}

		var (
			key   uint32
			value uint64
		)
		err := iter.Init(&key, &value)
		if err != nil {
			b.Error(err)
		}

		var updated bool
		for updated, err = iter.Next(); updated && err == nil; updated, err = iter.Next() {
		}
		if err != nil {
			b.Error(err)
		}
	}
}

func BenchmarkBatchMapIterator16(b *testing.B) {
	benchmarkBatchMapIterator(16, b)
}

func BenchmarkBatchMapIterator64(b *testing.B) {
	benchmarkBatchMapIterator(64, b)
}

func BenchmarkBatchMapIterator256(b *testing.B) {
	benchmarkBatchMapIterator(256, b)
}

func BenchmarkBatchMapIterator1024(b *testing.B) {
	benchmarkBatchMapIterator(1024, b)
}

func BenchmarkBatchMapIterator4096(b *testing.B) {
	benchmarkBatchMapIterator(4096, b)
}

func BenchmarkBatchMapIterator16384(b *testing.B) {
	benchmarkBatchMapIterator(16384, b)
}
