package bpfsys

import (
	"unsafe"

	"github.com/probekit/bpfld/bpftypes"
)

// BPFAttribute is implemented by the per-command attribute structs. Each
// struct mirrors one arm of the kernel's bpf_attr union, field for field,
// so its address can be handed to the syscall directly.
type BPFAttribute interface {
	ToPtr() unsafe.Pointer
	Size() uintptr
}

// BPFAttrMapCreate is the attribute for the BPF_MAP_CREATE command
type BPFAttrMapCreate struct {
	MapType    bpftypes.BPFMapType
	KeySize    uint32 // size of key in bytes
	ValueSize  uint32 // size of value in bytes
	MaxEntries uint32
	MapFlags   bpftypes.BPFMapFlags
	InnerMapFD BPFfd  // fd of the inner map for map-in-map types
	NumaNode   uint32 // effective only with BPFMapFlagsNUMANode
	MapName    [bpftypes.BPF_OBJ_NAME_LEN]byte
	MapIFIndex uint32 // ifindex of the netdev to offload to

	// The BTF fields stay zero, they keep the struct the size the kernel
	// expects.
	BTFFD                 BPFfd
	BTFKeyTypeID          uint32
	BTFValueTypeID        uint32
	BTFVMLinuxValueTypeID uint32
}

func (amc *BPFAttrMapCreate) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(amc)
}

func (amc *BPFAttrMapCreate) Size() uintptr {
	return unsafe.Sizeof(*amc)
}

// BPFAttrMapElem is used as attribute for the BPF_MAP_*_ELEM commands
type BPFAttrMapElem struct {
	MapFD BPFfd
	Key   uintptr // pointer to the key value
	// A union in the kernel, a pointer to the value for lookups and
	// updates, a pointer to the next key for BPF_MAP_GET_NEXT_KEY.
	Value_NextKey uintptr
	Flags         BPFAttrMapElemFlags
}

func (ame *BPFAttrMapElem) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(ame)
}

func (ame *BPFAttrMapElem) Size() uintptr {
	return unsafe.Sizeof(*ame)
}

// BPFAttrMapElemFlags modify how element updates treat existing keys.
type BPFAttrMapElemFlags uint64

const (
	// BPFMapElemAny creates new elements and updates existing ones.
	BPFMapElemAny BPFAttrMapElemFlags = iota
	// BPFMapElemNoExists only creates new elements.
	BPFMapElemNoExists
	// BPFMapElemExists only updates existing elements.
	BPFMapElemExists
	// BPFMapElemLock operates on spin_lock-ed map elements, required when
	// the value contains a spinlock.
	BPFMapElemLock
)

// BPFAttrMapBatch is used as attribute for the BPF_MAP_*_BATCH commands
type BPFAttrMapBatch struct {
	InBatch  uintptr // opaque batch cursor, NULL to start from the beginning
	OutBatch uintptr // output: cursor to resume from
	Keys     uintptr
	Values   uintptr
	// On input the capacity of Keys/Values in elements. The kernel
	// overwrites it with the number of elements actually processed, also
	// on most errors.
	Count     uint32
	MapFD     BPFfd
	ElemFlags BPFAttrMapElemFlags
	Flags     BPFAttrMapElemFlags
}

func (amb *BPFAttrMapBatch) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(amb)
}

func (amb *BPFAttrMapBatch) Size() uintptr {
	return unsafe.Sizeof(*amb)
}

// BPFAttrProgramLoad is the attribute for the BPF_PROG_LOAD command
type BPFAttrProgramLoad struct {
	ProgramType   bpftypes.BPFProgType
	InsnCnt       uint32  // number of raw instructions in the program
	Insns         uintptr // pointer to the raw instructions
	License       uintptr // pointer to a cstring like "GPL"
	LogLevel      bpftypes.BPFLogLevel
	LogSize       uint32  // size of the verifier log buffer
	LogBuf        uintptr // pointer to the verifier log buffer
	KernelVersion uint32  // only checked for kprobe programs on old kernels
	ProgFlags     bpftypes.BPFProgLoadFlags
	ProgName      [bpftypes.BPF_OBJ_NAME_LEN]byte
	ProgIFIndex   uint32 // ifindex of the netdev to offload to

	// Checked at load time for program types where the verifier needs the
	// hook to validate context accesses and helpers.
	ExpectedAttachType bpftypes.BPFAttachType
}

func (apl *BPFAttrProgramLoad) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(apl)
}

func (apl *BPFAttrProgramLoad) Size() uintptr {
	return unsafe.Sizeof(*apl)
}

// BPFAttrObj is used as attribute in the BPF_OBJ_PIN/GET commands
type BPFAttrObj struct {
	Pathname  uintptr // pointer to a cstring, must sit on a bpffs mount
	BPFfd     BPFfd
	FileFlags uint32
}

func (ao *BPFAttrObj) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(ao)
}

func (ao *BPFAttrObj) Size() uintptr {
	return unsafe.Sizeof(*ao)
}

// BPFAttrProgAttachDetach is used as attribute in the BPF_PROG_ATTACH/DETACH commands
type BPFAttrProgAttachDetach struct {
	TargetFD     uint32 // container object to attach to
	AttachBPFFD  BPFfd  // program to attach
	AttachType   bpftypes.BPFAttachType
	AttachFlags  bpftypes.BPFProgAttachFlags
	ReplaceBPFFD BPFfd // program to replace when BPF_F_REPLACE is set
}

func (apa *BPFAttrProgAttachDetach) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(apa)
}

func (apa *BPFAttrProgAttachDetach) Size() uintptr {
	return unsafe.Sizeof(*apa)
}

// BPFAttrProgTestRun is the attribute for the BPF_PROG_TEST_RUN command
type BPFAttrProgTestRun struct {
	ProgFD      BPFfd
	Retval      uint32 // output: program verdict
	DataSizeIn  uint32
	DataSizeOut uint32
	DataIn      uintptr
	DataOut     uintptr
	Repeat      uint32
	Duration    uint32 // output: average runtime in nanoseconds
	CtxSizeIn   uint32
	CtxSizeOut  uint32
	CtxIn       uintptr
	CtxOut      uintptr
	Flags       uint32
	CPU         uint32
}

func (apt *BPFAttrProgTestRun) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(apt)
}

func (apt *BPFAttrProgTestRun) Size() uintptr {
	return unsafe.Sizeof(*apt)
}

// BPFAttrGetID is used as attribute in the BPF_*_GET_*_ID commands
type BPFAttrGetID struct {
	ID        uint32
	NextID    uint32
	OpenFlags uint32
}

func (agi *BPFAttrGetID) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(agi)
}

func (agi *BPFAttrGetID) Size() uintptr {
	return unsafe.Sizeof(*agi)
}

// BPFAttrGetInfoFD is used as attribute in the BPF_OBJ_GET_INFO_BY_FD command
type BPFAttrGetInfoFD struct {
	BPFFD   BPFfd
	InfoLen uint32  // length of the info buffer
	Info    uintptr // pointer to a bpftypes.BPFProgInfo or bpftypes.BPFMapInfo
}

func (agi *BPFAttrGetInfoFD) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(agi)
}

func (agi *BPFAttrGetInfoFD) Size() uintptr {
	return unsafe.Sizeof(*agi)
}

// BPFAttrRawTracepointOpen is used as attribute in the BPF_RAW_TRACEPOINT_OPEN command
type BPFAttrRawTracepointOpen struct {
	Name   uintptr // pointer to a cstring with the tracepoint name
	ProgFD BPFfd
}

func (art *BPFAttrRawTracepointOpen) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(art)
}

func (art *BPFAttrRawTracepointOpen) Size() uintptr {
	return unsafe.Sizeof(*art)
}

// BPFAttrLinkCreate is used by the BPF_LINK_CREATE command
type BPFAttrLinkCreate struct {
	ProgFD                 BPFfd
	TargetFD_TargetIFIndex uint32
	AttachType             bpftypes.BPFAttachType
	Flags                  uint32
}

func (alc *BPFAttrLinkCreate) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(alc)
}

func (alc *BPFAttrLinkCreate) Size() uintptr {
	return unsafe.Sizeof(*alc)
}

// BPFAttrLinkUpdate is used by the BPF_LINK_UPDATE command
type BPFAttrLinkUpdate struct {
	LinkFD    uint32
	NewProgFD BPFfd
	Flags     uint32
	OldProgFD BPFfd // only checked when BPF_F_REPLACE is set
}

func (alu *BPFAttrLinkUpdate) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(alu)
}

func (alu *BPFAttrLinkUpdate) Size() uintptr {
	return unsafe.Sizeof(*alu)
}

// BPFAttrLinkDetach is used by the BPF_LINK_DETACH command
type BPFAttrLinkDetach struct {
	LinkID uint32
}

func (ald *BPFAttrLinkDetach) ToPtr() unsafe.Pointer {
	return unsafe.Pointer(ald)
}

func (ald *BPFAttrLinkDetach) Size() uintptr {
	return unsafe.Sizeof(*ald)
}
