// Package pebblestore wraps Pebble with an fsync policy, batch commits and
// prefix scans.
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
//
//	_ = db.ScanPrefix([]byte("k"), func(k, v []byte) error { return nil })
package pebblestore
