package mirror

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/cu-ecen-aeld/assignments-3-and-later-weberd6/internal/cmdlog"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)
// where header is seq_be8 | appendedMs_be8.

const headerLen = 16

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// ErrCorrupt is returned when a stored record fails its checksum or framing.
var ErrCorrupt = errors.New("mirror: corrupt record")

func encodeRecord(r cmdlog.Record) []byte {
	out := make([]byte, 0, 1+headerLen+len(r.Data)+4)
	out = binary.AppendUvarint(out, headerLen)
	out = binary.BigEndian.AppendUint64(out, r.Seq)
	out = binary.BigEndian.AppendUint64(out, uint64(r.AppendedMs))
	out = append(out, r.Data...)
	return binary.BigEndian.AppendUint32(out, crc32.Checksum(out[1:], castagnoli))
}

func decodeRecord(b []byte) (cmdlog.Record, error) {
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen != headerLen || n+headerLen+4 > len(b) {
		return cmdlog.Record{}, ErrCorrupt
	}
	body := b[n : len(b)-4]
	if crc32.Checksum(body, castagnoli) != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return cmdlog.Record{}, ErrCorrupt
	}
	return cmdlog.Record{
		Seq:        binary.BigEndian.Uint64(body[0:8]),
		AppendedMs: int64(binary.BigEndian.Uint64(body[8:16])),
		Data:       append([]byte(nil), body[headerLen:]...),
	}, nil
}
