package cmdlog

// Resolve maps a retained command index and an offset within that command
// to a global offset.
func (r *Ring) Resolve(cmd, off int64) (int64, error) {
	if cmd < 0 || cmd >= int64(r.count) {
		return 0, &AddressingError{Op: OpSeekTo, Index: cmd, Offset: off, Limit: int64(r.count)}
	}
	size := int64(len(r.slot(int(cmd)).Data))
	if off < 0 || off >= size {
		return 0, &AddressingError{Op: OpSeekTo, Index: cmd, Offset: off, Limit: size}
	}
	var start int64
	for k := 0; k < int(cmd); k++ {
		start += int64(len(r.slot(k).Data))
	}
	return start + off, nil
}

// Locate is the inverse of Resolve.
func (r *Ring) Locate(global int64) (cmd int, off int64, err error) {
	if global < 0 || global >= r.total {
		return 0, 0, &AddressingError{Op: OpOffset, Index: global, Limit: r.total}
	}
	for k := 0; k < r.count; k++ {
		n := int64(len(r.slot(k).Data))
		if global < n {
			return k, global, nil
		}
		global -= n
	}
	panic("cmdlog: total length out of sync with entries")
}
