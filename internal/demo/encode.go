package demo

import "encoding/binary"

// AppendRecord appends the wire form of r to dst. For framed commands the
// envelope's SubPacketSize is taken from len(r.Payload); Server and Client
// come from r.Frame when set.
func AppendRecord(dst []byte, r Record) []byte {
	dst = append(dst, byte(r.Command))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(r.Tick))
	switch {
	case r.Command.HasFrame():
		var f Frame
		if r.Frame != nil {
			f = *r.Frame
		}
		dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Server))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(f.Client))
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(r.Payload)))
	case r.Command.LengthPrefixed():
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(r.Payload)))
	default:
		return dst
	}
	return append(dst, r.Payload...)
}
