package kernelsupport

import (
	"fmt"
	"strings"
)

// APISupport is a flagset which describes which features related to the bpf syscall API are supported
type APISupport uint64

const (
	// KFeatAPIMapLookup the BPF_MAP_LOOKUP_ELEM command
	KFeatAPIMapLookup APISupport = 1 << iota
	// KFeatAPIMapUpdate the BPF_MAP_UPDATE_ELEM command
	KFeatAPIMapUpdate
	// KFeatAPIMapDelete the BPF_MAP_DELETE_ELEM command
	KFeatAPIMapDelete
	// KFeatAPIMapGetNext the BPF_MAP_GET_NEXT_KEY command
	KFeatAPIMapGetNext
	// KFeatAPIMapGetNextNull BPF_MAP_GET_NEXT_KEY accepts a NULL key to
	// request the first key in the map
	KFeatAPIMapGetNextNull
	// KFeatAPIMapNumaCreate maps can be allocated on a specific NUMA node
	KFeatAPIMapNumaCreate
	// KFeatAPIMapSyscallRW map access from syscalls can be restricted
	KFeatAPIMapSyscallRW
	// KFeatAPIMapName maps carry a name visible in introspection
	KFeatAPIMapName
	// KFeatAPIMapLookupAndDelete the BPF_MAP_LOOKUP_AND_DELETE_ELEM command
	KFeatAPIMapLookupAndDelete
	// KFeatAPIMapZeroSeed hash maps can be created with a fixed seed
	KFeatAPIMapZeroSeed
	// KFeatAPIMapLock elements with spinlocks can be accessed from syscalls
	KFeatAPIMapLock
	// KFeatAPIMapBPFRW map access from bpf programs can be restricted
	KFeatAPIMapBPFRW
	// KFeatAPIMapFreeze the BPF_MAP_FREEZE command
	KFeatAPIMapFreeze
	// KFeatAPIMapMMap array maps can be memory mapped
	KFeatAPIMapMMap
	// KFeatAPIMapLookupBatch the BPF_MAP_LOOKUP_BATCH command
	KFeatAPIMapLookupBatch
	// KFeatAPIMapUpdateBatch the BPF_MAP_UPDATE_BATCH command
	KFeatAPIMapUpdateBatch
	// KFeatAPIMapDeleteBatch the BPF_MAP_DELETE_BATCH command
	KFeatAPIMapDeleteBatch
	// KFeatAPIMapLookupAndDeleteBatch the BPF_MAP_LOOKUP_AND_DELETE_BATCH command
	KFeatAPIMapLookupAndDeleteBatch
	// KFeatAPIObjPinGet the BPF_OBJ_PIN and BPF_OBJ_GET commands
	KFeatAPIObjPinGet
	// KFeatAPIProgramTestRun the BPF_PROG_TEST_RUN command
	KFeatAPIProgramTestRun
	// KFeatAPILinkCreate the BPF_LINK_* commands
	KFeatAPILinkCreate

	// An end marker for enumeration, not an actual feature flag
	kFeatAPIMax
)

// Has returns true if 'as' has all the specified flags
func (as APISupport) Has(flags APISupport) bool {
	return as&flags == flags
}

var apiSupportToString = map[APISupport]string{
	KFeatAPIMapLookup:               "Map lookup",
	KFeatAPIMapUpdate:               "Map update",
	KFeatAPIMapDelete:               "Map delete",
	KFeatAPIMapGetNext:              "Map get next",
	KFeatAPIMapGetNextNull:          "Map get next null",
	KFeatAPIMapNumaCreate:           "Map NUMA create",
	KFeatAPIMapSyscallRW:            "Map syscall R/W",
	KFeatAPIMapName:                 "Map name",
	KFeatAPIMapLookupAndDelete:      "Map lookup and delete",
	KFeatAPIMapZeroSeed:             "Map zero seed",
	KFeatAPIMapLock:                 "Map lock",
	KFeatAPIMapBPFRW:                "Map BPF R/W",
	KFeatAPIMapFreeze:               "Map freeze",
	KFeatAPIMapMMap:                 "Map MMap",
	KFeatAPIMapLookupBatch:          "Map lookup batch",
	KFeatAPIMapUpdateBatch:          "Map update batch",
	KFeatAPIMapDeleteBatch:          "Map delete batch",
	KFeatAPIMapLookupAndDeleteBatch: "Map lookup and delete batch",
	KFeatAPIObjPinGet:               "Object pin/get",
	KFeatAPIProgramTestRun:          "Program test run",
	KFeatAPILinkCreate:              "Link create",
}

func (as APISupport) String() string {
	var apis []string
	for i := APISupport(1); i < kFeatAPIMax; i = i << 1 {
		// If this flag is set
		if as&i > 0 {
			apiStr := apiSupportToString[i]
			if apiStr == "" {
				apiStr = fmt.Sprintf("missing api str(%d)", i)
			}
			apis = append(apis, apiStr)
		}
	}

	if len(apis) == 0 {
		return "No support"
	}

	if len(apis) == 1 {
		return apis[0]
	}

	return strings.Join(apis, ", ")
}
