// Package protocol implements the binary length-prefixed request/response
// framing used by the prefix-match TCP service.
package protocol

import (
	"encoding/binary"
	"errors"
)

const (
	ReqMagic byte = 0x80
	ResMagic byte = 0x81

	OpGet byte = 0x00

	StatusOK     uint16 = 0x0000
	StatusENOMEM uint16 = 0x0082

	HeaderLen = 8
)

var (
	ErrBadMagic    = errors.New("protocol: bad magic byte")
	ErrShortHeader = errors.New("protocol: short header")
)

// RequestHeader is the 8-byte fixed header preceding every request body.
type RequestHeader struct {
	Magic    byte
	Opcode   byte
	BodyLen  uint32
	Reserved uint16
}

// Encode writes h in wire format: bodylen in network byte order.
func (h RequestHeader) Encode() []byte {
	buf := make([]byte, HeaderLen)
	buf[0] = h.Magic
	buf[1] = h.Opcode
	binary.BigEndian.PutUint32(buf[2:6], h.BodyLen)
	binary.BigEndian.PutUint16(buf[6:8], h.Reserved)
	return buf
}

// DecodeRequestHeader parses the first HeaderLen bytes of buf.
func DecodeRequestHeader(buf []byte) (RequestHeader, error) {
	if len(buf) < HeaderLen {
		return RequestHeader{}, ErrShortHeader
	}
	h := RequestHeader{
		Magic:    buf[0],
		Opcode:   buf[1],
		BodyLen:  binary.BigEndian.Uint32(buf[2:6]),
		Reserved: binary.BigEndian.Uint16(buf[6:8]),
	}
	if h.Magic != ReqMagic {
		return RequestHeader{}, ErrBadMagic
	}
	return h, nil
}

// ResponseHeader is the 8-byte fixed header preceding every response body.
type ResponseHeader struct {
	Magic    byte
	Status   uint16
	BodyLen  uint32
	Reserved byte
}

// Encode writes h in wire format: status and bodylen in network byte order.
func (h ResponseHeader) Encode() []byte {
	buf := make([]byte, HeaderLen)
	buf[0] = h.Magic
	binary.BigEndian.PutUint16(buf[1:3], h.Status)
	binary.BigEndian.PutUint32(buf[3:7], h.BodyLen)
	buf[7] = h.Reserved
	return buf
}

// DecodeResponseHeader parses the first HeaderLen bytes of buf.
func DecodeResponseHeader(buf []byte) (ResponseHeader, error) {
	if len(buf) < HeaderLen {
		return ResponseHeader{}, ErrShortHeader
	}
	h := ResponseHeader{
		Magic:    buf[0],
		Status:   binary.BigEndian.Uint16(buf[1:3]),
		BodyLen:  binary.BigEndian.Uint32(buf[3:7]),
		Reserved: buf[7],
	}
	if h.Magic != ResMagic {
		return ResponseHeader{}, ErrBadMagic
	}
	return h, nil
}

// EncodeGetRequestBody lays out the GET opcode's body: a little-endian
// u32 max_number followed by the raw UTF-8 query bytes.
func EncodeGetRequestBody(maxNumber uint32, query string) []byte {
	buf := make([]byte, 4+len(query))
	binary.LittleEndian.PutUint32(buf, maxNumber)
	copy(buf[4:], query)
	return buf
}

// DecodeGetRequestBody is the inverse of EncodeGetRequestBody.
func DecodeGetRequestBody(body []byte) (maxNumber uint32, query string, err error) {
	if len(body) < 4 {
		return 0, "", errors.New("protocol: short GET body")
	}
	maxNumber = binary.LittleEndian.Uint32(body[:4])
	query = string(body[4:])
	return maxNumber, query, nil
}

// EncodeGetResponseBody lays out a successful GET reply: a little-endian
// u32 count followed by count length-prefixed UTF-8 names.
func EncodeGetResponseBody(names []string) []byte {
	size := 4
	for _, n := range names {
		size += 4 + len(n)
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf, uint32(len(names)))
	pos := 4
	for _, n := range names {
		binary.LittleEndian.PutUint32(buf[pos:], uint32(len(n)))
		pos += 4
		pos += copy(buf[pos:], n)
	}
	return buf
}

// DecodeGetResponseBody is the inverse of EncodeGetResponseBody.
func DecodeGetResponseBody(body []byte) ([]string, error) {
	if len(body) < 4 {
		return nil, errors.New("protocol: short GET response body")
	}
	count := binary.LittleEndian.Uint32(body)
	pos := 4
	names := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+4 > len(body) {
			return nil, errors.New("protocol: truncated name length")
		}
		nameLen := int(binary.LittleEndian.Uint32(body[pos:]))
		pos += 4
		if nameLen < 0 || pos+nameLen > len(body) {
			return nil, errors.New("protocol: truncated name")
		}
		names = append(names, string(body[pos:pos+nameLen]))
		pos += nameLen
	}
	return names, nil
}
