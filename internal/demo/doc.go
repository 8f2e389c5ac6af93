// Package demo owns the HL2 demo file wire contract.
//
// Ownership boundary:
// - fixed header decode/encode
// - message stream framing and iteration
// - record disassembly view
//
// Payload semantics (entity deltas, user commands, string tables) are not
// interpreted here; records only carry a view of their payload bytes.
package demo
