package fs

import "golang.org/x/sys/unix"

// statValue maps a stat-derived property name onto the corresponding field
// of an lstat result. Numeric attributes come back as int64 (uint32 for
// mode, uid, and gid, matching their on-disk width); timestamps come back
// as time.Time.
func statValue(st *unix.Stat_t, name string) (any, bool) {
	switch name {
	case "fs:dev":
		return int64(st.Dev), true
	case "fs:ino":
		return int64(st.Ino), true
	case "fs:mode":
		return uint32(st.Mode), true
	case "fs:nlink":
		return int64(st.Nlink), true
	case "fs:uid":
		return uint32(st.Uid), true
	case "fs:gid":
		return uint32(st.Gid), true
	case "fs:size":
		return st.Size, true
	case "fs:blksize":
		return int64(st.Blksize), true
	case "fs:blocks":
		return int64(st.Blocks), true
	case "fs:atime":
		atime, _, _ := statTimes(st)
		return atime, true
	case "fs:mtime":
		_, mtime, _ := statTimes(st)
		return mtime, true
	case "fs:ctime":
		_, _, ctime := statTimes(st)
		return ctime, true
	default:
		return nil, false
	}
}
