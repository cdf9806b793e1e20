package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/simratima/VidStegX/models"
)

const (
	lengthPrefixSize = 4
	digestSize       = sha256.Size

	// frameOverhead is the fixed cost of the payload framing.
	frameOverhead = lengthPrefixSize + digestSize

	// maxMessageLength bounds the length prefix read back during
	// extraction. A value outside (0, maxMessageLength] means the key is
	// wrong or nothing is hidden.
	maxMessageLength = 10_000_000
)

// bitAt returns bit i of the buffer, MSB first within each byte. This is
// the on-pixel bit order of the embedding format.
func bitAt(buf []byte, i int) byte {
	return (buf[i/8] >> (7 - i%8)) & 1
}

// setBit writes bit i of the buffer, MSB first within each byte.
func setBit(buf []byte, i int, v byte) {
	mask := byte(1) << (7 - i%8)
	if v == 0 {
		buf[i/8] &^= mask
	} else {
		buf[i/8] |= mask
	}
}

// buildPayload frames message bytes for embedding:
// [4-byte little-endian length][message][SHA-256 of message].
func buildPayload(message []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(frameOverhead + len(message))
	binary.Write(&buf, binary.LittleEndian, uint32(len(message)))
	buf.Write(message)
	digest := sha256.Sum256(message)
	buf.Write(digest[:])
	return buf.Bytes()
}

// parseLength interprets the first four payload bytes and validates the
// window. The raw value is returned alongside the error so callers can show
// it in diagnostics.
func parseLength(prefix []byte) (int32, error) {
	length := int32(binary.LittleEndian.Uint32(prefix[:lengthPrefixSize]))
	if length <= 0 || length > maxMessageLength {
		return length, models.ErrInvalidLength
	}
	return length, nil
}

// verifyPayload splits a full payload into message and digest and checks the
// digest. The message bytes are returned even on mismatch; the caller
// decides what to surface.
func verifyPayload(payload []byte, length int32) ([]byte, error) {
	message := payload[lengthPrefixSize : lengthPrefixSize+int(length)]
	stored := payload[lengthPrefixSize+int(length):]
	computed := sha256.Sum256(message)
	if !bytes.Equal(stored, computed[:]) {
		return message, models.ErrHashMismatch
	}
	return message, nil
}
