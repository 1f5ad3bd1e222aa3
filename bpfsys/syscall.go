package bpfsys

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"github.com/probekit/bpfld/bpftypes"
	"github.com/probekit/bpfld/kernelsupport"
)

// BPFfd is a file descriptor returned by the bpf syscall which refers to a
// map, program or link.
//
// These descriptors behave like regular ones: children inherit them after
// fork, they can travel over unix domain sockets and be duplicated with dup.
// The kernel object behind a descriptor is only deallocated once every
// descriptor referring to it is closed and no pin or attachment keeps it
// alive.
type BPFfd uint32

// Close closes the file descriptor. For an unpinned, unattached object this
// releases the kernel object itself.
func (fd BPFfd) Close() error {
	err := unix.Close(int(fd))
	if errno, ok := err.(unix.Errno); ok {
		return &Syserror{
			Errno: errno,
			Err: map[unix.Errno]string{
				unix.EBADF: "fd isn't a valid open file descriptor",
				unix.EINTR: "the close call was interrupted by a signal",
				unix.EIO:   "an I/O error occurred",
			}[errno],
		}
	}

	return err
}

// Bpf is the raw entry point for the multiplexed bpf syscall. All other
// functions in this package go through it. Use the typed wrappers unless a
// command has no wrapper yet.
func Bpf(cmd bpftypes.BPFCommand, attr BPFAttribute, size int) (fd BPFfd, err error) {
	r0, _, errno := unix.Syscall(SYS_BPF, uintptr(cmd), uintptr(attr.ToPtr()), uintptr(size))
	if errno != 0 {
		err = &Syserror{
			Errno: errno,
		}
	}

	return BPFfd(r0), err
}

// bpfNoReturn wraps Bpf for commands which return no file descriptor.
func bpfNoReturn(cmd bpftypes.BPFCommand, attr BPFAttribute, size int) error {
	_, err := Bpf(cmd, attr, size)
	return err
}

const (
	transientAttempts = 3
	transientBackoff  = 50 * time.Microsecond
)

// checkAttachType rejects attach types the running kernel doesn't know about up front,
// the errno the kernel returns for an unknown attach type is a generic EINVAL.
func checkAttachType(at bpftypes.BPFAttachType) error {
	feat, found := attachTypeToKFeature[at]
	// If there is no feature defined for a type, assume it is always supported
	if !found {
		return nil
	}

	if !kernelsupport.CurrentFeatures.Attach.Has(feat) {
		return fmt.Errorf("attach type '%s' not supported: %w", at, ErrNotSupported)
	}

	return nil
}

var attachTypeToKFeature = map[bpftypes.BPFAttachType]kernelsupport.AttachSupport{
	bpftypes.BPF_CGROUP_INET_INGRESS:      kernelsupport.KFeatAttachINetIngressEgress,
	bpftypes.BPF_CGROUP_INET_EGRESS:       kernelsupport.KFeatAttachINetIngressEgress,
	bpftypes.BPF_CGROUP_INET_SOCK_CREATE:  kernelsupport.KFeatAttachInetSocketCreate,
	bpftypes.BPF_CGROUP_SOCK_OPS:          kernelsupport.KFeatAttachSocketOps,
	bpftypes.BPF_SK_SKB_STREAM_PARSER:     kernelsupport.KFeatAttachStreamParserVerdict,
	bpftypes.BPF_SK_SKB_STREAM_VERDICT:    kernelsupport.KFeatAttachStreamParserVerdict,
	bpftypes.BPF_CGROUP_DEVICE:            kernelsupport.KFeatAttachCGroupDevice,
	bpftypes.BPF_SK_MSG_VERDICT:           kernelsupport.KFeatAttachSKMsgVerdict,
	bpftypes.BPF_CGROUP_INET4_BIND:        kernelsupport.KFeatAttachCGroupInetBind,
	bpftypes.BPF_CGROUP_INET6_BIND:        kernelsupport.KFeatAttachCGroupInetBind,
	bpftypes.BPF_CGROUP_INET4_CONNECT:     kernelsupport.KFeatAttachCGroupInetConnect,
	bpftypes.BPF_CGROUP_INET6_CONNECT:     kernelsupport.KFeatAttachCGroupInetConnect,
	bpftypes.BPF_CGROUP_INET4_POST_BIND:   kernelsupport.KFeatAttachCGroupInetPostBind,
	bpftypes.BPF_CGROUP_INET6_POST_BIND:   kernelsupport.KFeatAttachCGroupInetPostBind,
	bpftypes.BPF_CGROUP_UDP4_SENDMSG:      kernelsupport.KFeatAttachCGroupUDPSendMsg,
	bpftypes.BPF_CGROUP_UDP6_SENDMSG:      kernelsupport.KFeatAttachCGroupUDPSendMsg,
	bpftypes.BPF_LIRC_MODE2:               kernelsupport.KFeatAttachLIRCMode2,
	bpftypes.BPF_FLOW_DISSECTOR:           kernelsupport.KFeatAttachFlowDissector,
	bpftypes.BPF_CGROUP_SYSCTL:            kernelsupport.KFeatAttachCGroupSysctl,
	bpftypes.BPF_CGROUP_UDP4_RECVMSG:      kernelsupport.KFeatAttachCGroupUDPRecvMsg,
	bpftypes.BPF_CGROUP_UDP6_RECVMSG:      kernelsupport.KFeatAttachCGroupUDPRecvMsg,
	bpftypes.BPF_CGROUP_GETSOCKOPT:        kernelsupport.KFeatAttachCGroupGetSetSocket,
	bpftypes.BPF_CGROUP_SETSOCKOPT:        kernelsupport.KFeatAttachCGroupGetSetSocket,
	bpftypes.BPF_TRACE_RAW_TP:             kernelsupport.KFeatAttachTraceRawTP,
	bpftypes.BPF_TRACE_FENTRY:             kernelsupport.KFeatAttachTraceFentry,
	bpftypes.BPF_TRACE_FEXIT:              kernelsupport.KFeatAttachTraceFExit,
	bpftypes.BPF_MODIFY_RETURN:            kernelsupport.KFeatAttachModifyReturn,
	bpftypes.BPF_LSM_MAC:                  kernelsupport.KFeatAttachLSMMAC,
	bpftypes.BPF_TRACE_ITER:               kernelsupport.KFeatAttachTraceIter,
	bpftypes.BPF_CGROUP_INET4_GETPEERNAME: kernelsupport.KFeatAttachCGroupINetGetPeerName,
	bpftypes.BPF_CGROUP_INET6_GETPEERNAME: kernelsupport.KFeatAttachCGroupINetGetPeerName,
	bpftypes.BPF_CGROUP_INET4_GETSOCKNAME: kernelsupport.KFeatAttachCGroupINetGetSocketName,
	bpftypes.BPF_CGROUP_INET6_GETSOCKNAME: kernelsupport.KFeatAttachCGroupINetGetSocketName,
	bpftypes.BPF_XDP_DEVMAP:               kernelsupport.KFeatAttachXDPDevMap,
	bpftypes.BPF_CGROUP_INET_SOCK_RELEASE: kernelsupport.KFeatAttachCGroupInetSocketRelease,
	bpftypes.BPF_XDP_CPUMAP:               kernelsupport.KFeatAttachXDPCPUMap,
	bpftypes.BPF_SK_LOOKUP:                kernelsupport.KFeatAttachSKLookup,
	bpftypes.BPF_XDP:                      kernelsupport.KFeatAttachXDP,
}

// bpfRetry wraps bpfNoReturn for commands where a transient errno means the
// kernel did not act on the attribute at all, so repeating the call is safe.
// The backoff doubles on every attempt.
func bpfRetry(cmd bpftypes.BPFCommand, attr BPFAttribute, size int) error {
	backoff := transientBackoff
	var err error
	for i := 0; i < transientAttempts; i++ {
		err = bpfNoReturn(cmd, attr, size)
		if err == nil || !errors.Is(err, ErrTransient) {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return err
}

// withContext attaches a command specific explanation to the error's errno.
func withContext(err error, ctx map[unix.Errno]string) error {
	if syserr, ok := err.(*Syserror); ok {
		syserr.Err = ctx[syserr.Errno]
		return syserr
	}
	return err
}

// MapCreate creates a map and returns a file descriptor that refers to it.
// The close-on-exec flag is automatically enabled for the new descriptor.
//
// Closing the returned file descriptor deletes the map, unless it is pinned
// or held by a loaded program.
func MapCreate(attr *BPFAttrMapCreate) (fd BPFfd, err error) {
	// Reject features the running kernel doesn't have up front, the errno
	// the kernel returns for unknown attributes is a generic EINVAL.
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapNumaCreate) {
		if attr.NumaNode != 0 || attr.MapFlags&bpftypes.BPFMapFlagsNUMANode > 0 {
			return 0, fmt.Errorf("NUMA node can't be specified: %w", ErrNotSupported)
		}
	}

	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapName) {
		if attr.MapName != [bpftypes.BPF_OBJ_NAME_LEN]byte{} {
			return 0, fmt.Errorf("map name can't be specified: %w", ErrNotSupported)
		}
	}

	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapZeroSeed) {
		if attr.MapFlags&bpftypes.BPFMapFlagsZeroSeed > 0 {
			return 0, fmt.Errorf("zero seed flag not supported: %w", ErrNotSupported)
		}
	}

	fd, err = Bpf(bpftypes.BPF_MAP_CREATE, attr, int(attr.Size()))
	return fd, withContext(err, map[unix.Errno]string{
		unix.EPERM:  "missing CAP_BPF or the locked memory limit was reached",
		unix.EINVAL: "invalid map type, key size, value size or flags",
	})
}

// MapLookupElem looks up the element with attr.Key in the map attr.MapFD and
// writes its value to the memory attr.Value_NextKey points at. Only a Flags
// value of 0 or BPFMapElemLock is valid for this command.
func MapLookupElem(attr *BPFAttrMapElem) error {
	err := bpfRetry(bpftypes.BPF_MAP_LOOKUP_ELEM, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.ENOENT: "no element with attr.Key exists in the map",
	})
}

// MapUpdateElem creates or updates an element in the map attr.MapFD,
// depending on attr.Flags.
func MapUpdateElem(attr *BPFAttrMapElem) error {
	err := bpfRetry(bpftypes.BPF_MAP_UPDATE_ELEM, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.E2BIG:  "the map is at the max_entries limit specified at creation time",
		unix.EEXIST: "attr.Flags specifies BPFMapElemNoExists and the element with attr.Key already exists",
		unix.ENOENT: "attr.Flags specifies BPFMapElemExists and no element with attr.Key exists",
	})
}

// MapDeleteElem deletes the element with attr.Key from the map attr.MapFD.
func MapDeleteElem(attr *BPFAttrMapElem) error {
	err := bpfRetry(bpftypes.BPF_MAP_DELETE_ELEM, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.ENOENT: "no element with attr.Key exists in the map",
	})
}

// MapGetNextKey writes the key following attr.Key to the memory
// attr.Value_NextKey points at.
//
// Iteration over a whole map works as follows:
//   - if attr.Key is not found, the first key is written, so a key that can
//     never exist starts iteration from the beginning
//   - if attr.Key is found, the key after it is written
//   - if attr.Key is the last key, the call fails with ENOENT
func MapGetNextKey(attr *BPFAttrMapElem) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapGetNextNull) &&
		attr.Value_NextKey == 0 {

		return fmt.Errorf("NextKey == NULL: %w", ErrNotSupported)
	}

	err := bpfRetry(bpftypes.BPF_MAP_GET_NEXT_KEY, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.ENOENT: "the element indicated by attr.Key is the last in the map",
	})
}

// MapLookupAndDeleteElem looks up the element with attr.Key in the map
// attr.MapFD and deletes it after copying out the value.
//
// Queue and stack maps implement this as a pop of the head element, the key
// is ignored and should be zero for those types.
func MapLookupAndDeleteElem(attr *BPFAttrMapElem) error {
	err := bpfRetry(bpftypes.BPF_MAP_LOOKUP_AND_DELETE_ELEM, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.ENOENT: "the map is empty or no element with attr.Key exists",
	})
}

// MapFreeze freezes the map's state towards userspace. After a successful
// call no syscall may modify the map's contents anymore, writes from bpf
// programs stay possible. There is no thaw operation.
func MapFreeze(attr *BPFAttrMapElem) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapFreeze) {
		return fmt.Errorf("map freeze not supported: %w", ErrNotSupported)
	}

	return bpfNoReturn(bpftypes.BPF_MAP_FREEZE, attr, int(attr.Size()))
}

// MapLookupBatch fetches up to attr.Count elements from the map attr.MapFD.
//
// attr.InBatch and attr.OutBatch are opaque cursors, pass NULL as InBatch to
// start and the previous OutBatch to continue. attr.Keys and attr.Values
// must each hold attr.Count elements of the map's key and value size.
//
// On return attr.Count holds the number of elements actually copied, also
// when the call fails with any errno except EFAULT. ENOENT after a partial
// batch means iteration completed.
func MapLookupBatch(attr *BPFAttrMapBatch) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapLookupBatch) {
		return fmt.Errorf("batch lookup not supported: %w", ErrNotSupported)
	}

	return bpfNoReturn(bpftypes.BPF_MAP_LOOKUP_BATCH, attr, int(attr.Size()))
}

// MapLookupBatchAndDelete behaves like MapLookupBatch and additionally
// deletes every element it returned. When the call fails with EFAULT up to
// attr.Count elements may have been deleted without being returned.
func MapLookupBatchAndDelete(attr *BPFAttrMapBatch) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapLookupAndDeleteBatch) {
		return fmt.Errorf("batch lookup and delete not supported: %w", ErrNotSupported)
	}

	return bpfNoReturn(bpftypes.BPF_MAP_LOOKUP_AND_DELETE_BATCH, attr, int(attr.Size()))
}

// MapUpdateBatch updates up to attr.Count elements in the map attr.MapFD.
// Elements are processed in order, on a partial failure attr.Count holds the
// number of successfully applied updates and the error describes the element
// the kernel stopped at. attr.InBatch and attr.OutBatch are ignored.
func MapUpdateBatch(attr *BPFAttrMapBatch) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapUpdateBatch) {
		return fmt.Errorf("batch update not supported: %w", ErrNotSupported)
	}

	err := bpfNoReturn(bpftypes.BPF_MAP_UPDATE_BATCH, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.E2BIG:  "the map is at the max_entries limit specified at creation time",
		unix.EEXIST: "attr.ElemFlags specifies BPFMapElemNoExists and one of the keys already exists",
		unix.ENOENT: "attr.ElemFlags specifies BPFMapElemExists and one of the keys does not exist",
	})
}

// MapDeleteBatch deletes up to attr.Count elements from the map attr.MapFD.
// Only attr.Keys is consulted. On a partial failure attr.Count holds the
// number of elements deleted before the error.
func MapDeleteBatch(attr *BPFAttrMapBatch) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIMapDeleteBatch) {
		return fmt.Errorf("batch delete not supported: %w", ErrNotSupported)
	}

	return bpfNoReturn(bpftypes.BPF_MAP_DELETE_BATCH, attr, int(attr.Size()))
}

// LoadProgram verifies and loads a program, returning a new file descriptor.
// The close-on-exec flag is automatically enabled.
//
// Closing the returned file descriptor unloads the program unless it is
// pinned or attached.
func LoadProgram(attr *BPFAttrProgramLoad) (fd BPFfd, err error) {
	fd, err = Bpf(bpftypes.BPF_PROG_LOAD, attr, int(attr.Size()))
	return fd, withContext(err, map[unix.Errno]string{
		unix.EPERM:  "missing CAP_BPF/CAP_SYS_ADMIN or the locked memory limit was reached",
		unix.EINVAL: "the program was rejected by the verifier, check the verifier log",
		unix.EACCES: "the program accesses memory the verifier can't prove safe, check the verifier log",
	})
}

// ObjectPin pins the object behind attr.BPFfd to attr.Pathname on a bpffs
// mount.
//
// A pin holds its own reference, the object outlives the file descriptor
// and the process until the path is unlinked.
func ObjectPin(attr *BPFAttrObj) error {
	err := bpfNoReturn(bpftypes.BPF_OBJ_PIN, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.EINVAL: "attr.Pathname is invalid, it may not contain a dot",
		unix.EPERM:  "the parent directory of attr.Pathname is not a bpffs mount",
	})
}

// ObjectGet opens a new file descriptor for the object pinned at
// attr.Pathname.
func ObjectGet(attr *BPFAttrObj) (fd BPFfd, err error) {
	fd, err = Bpf(bpftypes.BPF_OBJ_GET, attr, int(attr.Size()))
	return fd, withContext(err, map[unix.Errno]string{
		unix.ENOENT: "nothing is pinned at attr.Pathname",
	})
}

// ObjectGetInfoByFD fills attr.Info with information about the object behind
// attr.BPFFD, up to attr.InfoLen bytes. The format depends on the object: a
// bpftypes.BPFProgInfo for programs, a bpftypes.BPFMapInfo for maps.
func ObjectGetInfoByFD(attr *BPFAttrGetInfoFD) error {
	return bpfNoReturn(bpftypes.BPF_OBJ_GET_INFO_BY_FD, attr, int(attr.Size()))
}

// ProgramAttach attaches the program attr.AttachBPFFD to the hook described
// by attr.TargetFD and attr.AttachType. Used for cgroup, sockmap and flow
// dissector style hooks which are addressed by a file descriptor.
func ProgramAttach(attr *BPFAttrProgAttachDetach) error {
	if err := checkAttachType(attr.AttachType); err != nil {
		return err
	}

	return bpfNoReturn(bpftypes.BPF_PROG_ATTACH, attr, int(attr.Size()))
}

// ProgramDetach detaches the program previously attached with ProgramAttach
// from the hook described by attr.TargetFD and attr.AttachType.
func ProgramDetach(attr *BPFAttrProgAttachDetach) error {
	return bpfNoReturn(bpftypes.BPF_PROG_DETACH, attr, int(attr.Size()))
}

// ProgramTestRun runs the program attr.ProgFD attr.Repeat times against the
// given context and input data, returning the verdict in attr.Retval and the
// average runtime in attr.Duration.
func ProgramTestRun(attr *BPFAttrProgTestRun) error {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPIProgramTestRun) {
		return fmt.Errorf("prog test run not supported: %w", ErrNotSupported)
	}

	err := bpfNoReturn(bpftypes.BPF_PROG_TEST_RUN, attr, int(attr.Size()))
	return withContext(err, map[unix.Errno]string{
		unix.ENOSPC: "attr.DataSizeOut or attr.CtxSizeOut is too small",
		ENOTSUPP:    "the program type doesn't support test runs",
	})
}

// ProgramGetNextID writes the id of the first program with an id greater
// than attr.ID to attr.NextID. ENOENT means attr.ID was the highest id.
func ProgramGetNextID(attr *BPFAttrGetID) error {
	return bpfNoReturn(bpftypes.BPF_PROG_GET_NEXT_ID, attr, int(attr.Size()))
}

// MapGetNextID writes the id of the first map with an id greater than
// attr.ID to attr.NextID. ENOENT means attr.ID was the highest id.
func MapGetNextID(attr *BPFAttrGetID) error {
	return bpfNoReturn(bpftypes.BPF_MAP_GET_NEXT_ID, attr, int(attr.Size()))
}

// ProgramGetFDByID opens a file descriptor for the loaded program with id
// attr.ID. Requires CAP_SYS_ADMIN.
func ProgramGetFDByID(attr *BPFAttrGetID) (fd BPFfd, err error) {
	return Bpf(bpftypes.BPF_PROG_GET_FD_BY_ID, attr, int(attr.Size()))
}

// MapGetFDByID opens a file descriptor for the map with id attr.ID.
// Requires CAP_SYS_ADMIN.
func MapGetFDByID(attr *BPFAttrGetID) (fd BPFfd, err error) {
	return Bpf(bpftypes.BPF_MAP_GET_FD_BY_ID, attr, int(attr.Size()))
}

// RawTracepointOpen attaches the program attr.ProgFD to the raw tracepoint
// named by attr.Name. Closing the returned file descriptor detaches the
// program.
func RawTracepointOpen(attr *BPFAttrRawTracepointOpen) (fd BPFfd, err error) {
	return Bpf(bpftypes.BPF_RAW_TRACEPOINT_OPEN, attr, int(attr.Size()))
}

// LinkCreate attaches the program attr.ProgFD to the hook described by
// attr.TargetFD_TargetIFIndex and attr.AttachType, and returns a link file
// descriptor that manages the attachment.
func LinkCreate(attr *BPFAttrLinkCreate) (fd BPFfd, err error) {
	if !kernelsupport.CurrentFeatures.API.Has(kernelsupport.KFeatAPILinkCreate) {
		return 0, fmt.Errorf("links not supported: %w", ErrNotSupported)
	}

	if err := checkAttachType(attr.AttachType); err != nil {
		return 0, err
	}

	return Bpf(bpftypes.BPF_LINK_CREATE, attr, int(attr.Size()))
}

// LinkUpdate atomically swaps the program behind the link attr.LinkFD for
// attr.NewProgFD.
func LinkUpdate(attr *BPFAttrLinkUpdate) error {
	return bpfNoReturn(bpftypes.BPF_LINK_UPDATE, attr, int(attr.Size()))
}

// LinkDetach forcefully detaches the link attr.LinkID from its hook.
func LinkDetach(attr *BPFAttrLinkDetach) error {
	return bpfNoReturn(bpftypes.BPF_LINK_DETACH, attr, int(attr.Size()))
}
