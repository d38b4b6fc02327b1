// Package link drives the LD303 codec over a byte stream.
//
// A Link owns one parser per stream. Bytes are consumed in order by the
// Run loop only, completed payloads are copied out before the next byte is
// parsed, and writes from any goroutine are serialized.
package link
