package crc8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumEmpty(t *testing.T) {
	assert.Equal(t, byte(0x00), Checksum(nil), "checksum of an empty slice is the init value")
}

func TestChecksumSingleByteMatchesTable(t *testing.T) {
	for _, b := range []byte{0x00, 0x01, 0x7F, 0xAA, 0xFF} {
		assert.Equal(t, ByteOf(b), Checksum([]byte{b}), "single-byte checksum must reproduce the table entry")
	}
}

func TestChecksumDeterministic(t *testing.T) {
	data := []byte{0x01, 0x10, 0x20, 0x30}
	assert.Equal(t, Checksum(data), Checksum(append([]byte(nil), data...)), "same input must always produce the same CRC")
}

func TestChecksumSensitiveToOrder(t *testing.T) {
	a := Checksum([]byte{0x01, 0x02})
	b := Checksum([]byte{0x02, 0x01})
	assert.NotEqual(t, a, b, "CRC-8 must not be order-independent")
}

func TestChecksumSensitiveToSingleBitFlip(t *testing.T) {
	base := []byte{0xAA, 0x03, 0x10, 0x20, 0x00}
	flipped := append([]byte(nil), base...)
	flipped[2] ^= 0x01
	assert.NotEqual(t, Checksum(base), Checksum(flipped), "a single bit flip must change the checksum")
}
