// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package spi implements the fixed frame serial protocol used to configure
// designs under test: 16 bit transactions carrying a read/write flag, a 7
// bit register address and 8 bits of data, shifted MSB first over a 3 wire
// bus (active low chip select, data out, serial clock).
//
package spi

import "fmt"

// frame bit layout
const (
	writeBit = 1 << 15
	addrMask = 0x7F
)

// A Frame is one 16 bit bus transaction.
//
type Frame struct {
	Write bool
	Addr  uint8
	Data  uint8
}

// Word returns the frame encoded as the 16 bits shifted on the wire, MSB
// first: the read/write flag, the 7 bit address, then the payload.
//
func (f Frame) Word() uint16 {
	w := uint16(f.Addr&addrMask)<<8 | uint16(f.Data)
	if f.Write {
		w |= writeBit
	}
	return w
}

// FrameFromWord decodes a 16 bit wire word into a Frame.
//
func FrameFromWord(w uint16) Frame {
	return Frame{
		Write: w&writeBit != 0,
		Addr:  uint8(w>>8) & addrMask,
		Data:  uint8(w),
	}
}

func (f Frame) String() string {
	return fmt.Sprintf("write=%-5v addr=%#04x data=%#04x", f.Write, f.Addr, f.Data)
}
