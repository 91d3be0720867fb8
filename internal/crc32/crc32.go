// Package crc32 implements the CRC-32 checksum used by gzip (the IEEE
// polynomial, reflected).
package crc32

// IEEE is the reversed form of the IEEE 802.3 polynomial.
const IEEE = 0xedb88320

// Table is a 256-word table representing the polynomial for efficient
// processing.
type Table [256]uint32

// ieeeTable is built during package initialization and only read afterwards.
var ieeeTable = MakeTable()

// MakeTable returns the table for the IEEE polynomial. It builds a new copy
// on every call.
func MakeTable() *Table {
	t := new(Table)
	for i := range t {
		crc := uint32(i)
		for j := 0; j < 8; j++ {
			if crc&1 == 1 {
				crc = (crc >> 1) ^ IEEE
			} else {
				crc >>= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Update returns the result of adding the bytes in p to crc.
func Update(crc uint32, p []byte) uint32 {
	crc = ^crc
	for _, v := range p {
		crc = ieeeTable[byte(crc)^v] ^ (crc >> 8)
	}
	return ^crc
}

// Checksum returns the CRC-32 checksum of data.
func Checksum(data []byte) uint32 { return Update(0, data) }
