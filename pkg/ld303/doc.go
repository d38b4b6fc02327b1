// Package ld303 provides the serial framing codec of the LD303 radar module.
package ld303

// Three wire formats share the link:
//
//	uplink  (module -> host): 55 A5 LEN payload... CHK
//	query   (host -> module): 55 5A LEN payload... CHK
//	command (host -> module): BA AB 00 CMD PARAM_HI PARAM_LO 00 55 BB
//
// LEN is the payload length plus one. CHK is the 8-bit wrapping sum of every
// preceding byte of the frame. The checksum slot of a command frame is
// defined by the module but always sent as zero.
//
// Parser consumes uplink frames one byte at a time and silently resyncs on
// any framing error. The builders are stateless and safe for concurrent use
// as long as each call owns its output buffer.
//
// Producer: host and LD303 module
// Consumer: host and LD303 module
