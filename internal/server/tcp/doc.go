// Package tcpserver serves the newline command protocol. Each accepted
// connection gets its own worker goroutine that feeds received bytes into an
// accumulator, appends every completed command to the shared log and replays
// the whole retained log back to the client.
//
// A command of the exact form "AESDCHAR_IOCSEEKTO:X,Y\n" is not appended.
// It moves the connection's cursor to byte Y of retained command X and
// sends the content from there to the end.
package tcpserver
