package watcher

// FSEvents stream event flag bits, from FSEvents.h. Kept outside the
// darwin-only file so classification stays testable on every platform.
const (
	flagMustScanSubDirs uint32 = 0x00000001
	flagUserDropped     uint32 = 0x00000002
	flagKernelDropped   uint32 = 0x00000004
	flagEventIDsWrapped uint32 = 0x00000008
	flagHistoryDone     uint32 = 0x00000010
	flagRootChanged     uint32 = 0x00000020
	flagMount           uint32 = 0x00000040
	flagUnmount         uint32 = 0x00000080

	flagItemCreated       uint32 = 0x00000100
	flagItemRemoved       uint32 = 0x00000200
	flagItemInodeMetaMod  uint32 = 0x00000400
	flagItemRenamed       uint32 = 0x00000800
	flagItemModified      uint32 = 0x00001000
	flagItemFinderInfoMod uint32 = 0x00002000
	flagItemChangeOwner   uint32 = 0x00004000
	flagItemXattrMod      uint32 = 0x00008000
	flagItemIsFile        uint32 = 0x00010000
	flagItemIsDir         uint32 = 0x00020000
	flagItemIsSymlink     uint32 = 0x00040000
)

// eventClass is the normalized meaning of one FSEvents flag word.
type eventClass int

const (
	// classNop is an ignorable marker (id wrap, bare flag word).
	classNop eventClass = iota
	// classHistoryDone marks the end of resumed history replay.
	classHistoryDone
	// classRescan means incremental handling is unsafe: the root changed,
	// events were dropped, or the kernel asks for a subdirectory scan.
	classRescan
	// classFolder is a change to a directory entry.
	classFolder
	// classSingleNode is a change to a single file or symlink.
	classSingleNode
)

// classifyFlags maps one FSEvents flag word to its normalized class.
// HistoryDone wins over everything; rescan conditions win over item flags.
func classifyFlags(flags uint32) eventClass {
	switch {
	case flags&flagHistoryDone != 0:
		return classHistoryDone
	case flags&(flagMustScanSubDirs|flagUserDropped|flagKernelDropped|flagRootChanged|flagMount|flagUnmount) != 0:
		return classRescan
	case flags&flagEventIDsWrapped != 0:
		return classNop
	case flags&flagItemIsDir != 0:
		return classFolder
	case flags&(flagItemIsFile|flagItemIsSymlink) != 0:
		return classSingleNode
	case flags == 0:
		return classNop
	default:
		// Unrecognized combination: treat as a single-node change, the
		// apply path re-stats it anyway.
		return classSingleNode
	}
}
