// Package runtime wires configuration, the mirror and the shared command log
// into one instance that the servers share.
//
//	rt, err := runtime.Open(ctx, runtime.Options{Config: cfg, Logger: logger})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	_, _ = rt.Log().Append(ctx, []byte("hello\n"))
package runtime
