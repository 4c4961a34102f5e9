// Package commandsvc is the command log facade consumed by the HTTP and gRPC
// transports. It lists retained commands (optionally through a CEL filter),
// reads from a global offset, resolves seeks and accepts admin submissions
// through the same append path the TCP workers use.
//
// Example:
//
//	svc := commandsvc.New(rt)
//	_, _ = svc.Submit(ctx, []byte("hello\n"))
//	items, _ := svc.List(ctx, `size > 4 && text.startsWith("timestamp:")`)
//	off, data, _ := svc.Seek(ctx, 0, 2)
package commandsvc
