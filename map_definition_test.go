package bpfld

import (
	"os"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/kernelsupport"
)

func TestMapDefValidateHappyPath(t *testing.T) {
	def := BPFMapDef{
		Type:       bpftypes.BPF_MAP_TYPE_HASH,
		KeySize:    4,
		ValueSize:  8,
		MaxEntries: 128,
	}
	qt.Assert(t, qt.IsNil(def.Validate()))
}

func TestMapDefValidateKeySizes(t *testing.T) {
	// Array keys are always 4 byte indexes.
	def := BPFMapDef{
		Type:       bpftypes.BPF_MAP_TYPE_ARRAY,
		KeySize:    8,
		ValueSize:  8,
		MaxEntries: 128,
	}
	qt.Assert(t, qt.IsNotNil(def.Validate()))

	def.KeySize = 4
	qt.Assert(t, qt.IsNil(def.Validate()))

	// Hash maps need at least one key byte.
	def = BPFMapDef{
		Type:       bpftypes.BPF_MAP_TYPE_HASH,
		KeySize:    0,
		ValueSize:  8,
		MaxEntries: 128,
	}
	qt.Assert(t, qt.IsNotNil(def.Validate()))
}

func TestMapDefValidateRingBufSize(t *testing.T) {
	if !kernelsupport.CurrentFeatures.Map.Has(kernelsupport.KFeatMapRingBuffer) {
		t.Skip("skipping, ring buffer maps not supported by the current kernel")
	}

	pageSize := uint32(os.Getpagesize())

	def := BPFMapDef{
		Type:       bpftypes.BPF_MAP_TYPE_RINGBUF,
		MaxEntries: pageSize * 4,
	}
	qt.Assert(t, qt.IsNil(def.Validate()))

	// Power of two but not a page multiple.
	def.MaxEntries = 8
	qt.Assert(t, qt.IsNotNil(def.Validate()))

	// Page multiple but not a power of two.
	def.MaxEntries = pageSize * 3
	qt.Assert(t, qt.IsNotNil(def.Validate()))

	def.MaxEntries = 0
	qt.Assert(t, qt.IsNotNil(def.Validate()))

	// Ring buffers have no key/value entries.
	def.MaxEntries = pageSize * 4
	def.KeySize = 4
	qt.Assert(t, qt.IsNotNil(def.Validate()))
}

func TestMapDefEqual(t *testing.T) {
	a := BPFMapDef{
		Type:       bpftypes.BPF_MAP_TYPE_HASH,
		KeySize:    4,
		ValueSize:  8,
		MaxEntries: 128,
	}
	b := a
	qt.Assert(t, qt.IsTrue(a.Equal(b)))

	b.MaxEntries = 64
	qt.Assert(t, qt.IsFalse(a.Equal(b)))
}
