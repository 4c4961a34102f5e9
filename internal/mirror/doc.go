// Package mirror keeps a durable copy of the command log so it survives a
// restart. Three backends implement cmdlog.Mirror:
//
//   - Pebble stores one key per command under cmdlog/e/{seq_be8}.
//   - Redis keeps a list and trims it in the same MULTI as the push.
//   - File rewrites a plain data file holding exactly the retained bytes.
//
// Pebble and Redis values use the same CRC32C-framed record encoding.
package mirror
