package tcpserver

import (
	"bytes"
	"strconv"
)

// SeekToPrefix starts the in-band seek control command.
const SeekToPrefix = "AESDCHAR_IOCSEEKTO:"

// parseSeekTo recognizes "AESDCHAR_IOCSEEKTO:X,Y\n" with unsigned decimal X
// and Y. Anything else, including a malformed command carrying the prefix,
// is ordinary data.
func parseSeekTo(cmd []byte) (x, y int64, ok bool) {
	rest, found := bytes.CutPrefix(cmd, []byte(SeekToPrefix))
	if !found {
		return 0, 0, false
	}
	rest, found = bytes.CutSuffix(rest, []byte{'\n'})
	if !found {
		return 0, 0, false
	}
	xs, ys, found := bytes.Cut(rest, []byte{','})
	if !found {
		return 0, 0, false
	}
	x, okx := parseUnsigned(xs)
	y, oky := parseUnsigned(ys)
	if !okx || !oky {
		return 0, 0, false
	}
	return x, y, true
}

func parseUnsigned(b []byte) (int64, bool) {
	if len(b) == 0 || b[0] == '+' || b[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SeekToCommand formats the control command for x and y.
func SeekToCommand(x, y int64) []byte {
	b := make([]byte, 0, len(SeekToPrefix)+24)
	b = append(b, SeekToPrefix...)
	b = strconv.AppendInt(b, x, 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, y, 10)
	return append(b, '\n')
}
