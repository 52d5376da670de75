package emu

// attackStep is the per-tick fpsub step for each 7-bit attack rate.
// Rates 0x78-0x7f all reach full scale in two ticks.
var attackStep = [128]int32{
	0x00027, 0x0002a, 0x0002e, 0x00032, 0x00036, 0x0003a, 0x0003f, 0x00044,
	0x0004a, 0x00050, 0x00057, 0x0005e, 0x00066, 0x0006e, 0x00077, 0x00081,
	0x0008c, 0x00098, 0x000a4, 0x000b2, 0x000c1, 0x000d1, 0x000e2, 0x000f5,
	0x00109, 0x0011f, 0x00137, 0x00151, 0x0016d, 0x0018c, 0x001ac, 0x001d0,
	0x001f7, 0x00220, 0x0024e, 0x0027f, 0x002b4, 0x002ed, 0x0032c, 0x0036f,
	0x003b8, 0x00408, 0x0045d, 0x004ba, 0x0051f, 0x0058c, 0x00602, 0x00682,
	0x0070c, 0x007a2, 0x00845, 0x008f5, 0x009b4, 0x00a82, 0x00b62, 0x00c54,
	0x00d5b, 0x00e77, 0x00fab, 0x010f9, 0x01262, 0x013e9, 0x01591, 0x0175c,
	0x0194e, 0x01b69, 0x01db0, 0x02028, 0x022d5, 0x025ba, 0x028dd, 0x02c43,
	0x02ff2, 0x033ee, 0x03840, 0x03cee, 0x041ff, 0x0477c, 0x04d6d, 0x053de,
	0x05ad7, 0x06265, 0x06a94, 0x07371, 0x07d0b, 0x08771, 0x092b4, 0x09ee7,
	0x0ac1e, 0x0ba6f, 0x0c9f0, 0x0dabb, 0x0eceb, 0x1009f, 0x115f6, 0x12d14,
	0x1461e, 0x1613d, 0x17e9d, 0x19e6e, 0x1c0e5, 0x1e63a, 0x20eaa, 0x23a76,
	0x269e7, 0x29d49, 0x2d4f2, 0x3113b, 0x35289, 0x39944, 0x3e5e1, 0x438dd,
	0x492c0, 0x4f41d, 0x55d92, 0x5cfcc, 0x64b86, 0x6d18b, 0x762b4, 0x7fff0,
	0x7fff0, 0x7fff0, 0x7fff0, 0x7fff0, 0x7fff0, 0x7fff0, 0x7fff0, 0x7fff0,
}

// decayStep is the per-tick step for linear decay/release, indexed by the
// 5-bit rate.
var decayStep = [32]int32{
	0x00040, 0x00050, 0x00064, 0x0007d, 0x0009d, 0x000c4, 0x000f5, 0x00132,
	0x0017f, 0x001df, 0x00257, 0x002ed, 0x003a8, 0x00493, 0x005b8, 0x00727,
	0x008f2, 0x00b30, 0x00dfe, 0x0117f, 0x015e2, 0x01b5d, 0x02238, 0x02acb,
	0x03584, 0x042ed, 0x053b2, 0x068ab, 0x082e5, 0x0a3b1, 0x0ccb5, 0x10000,
}

// panmap converts a 4-bit pan code into an attenuation in 1/256 octave
// units. Code 15 mutes the side.
var panmap = [16]int32{
	0x000, 0x04a, 0x06a, 0x08a, 0x0aa, 0x0ca, 0x0ea, 0x10a,
	0x12a, 0x14a, 0x16a, 0x18a, 0x1aa, 0x1ca, 0x1ea, 0x1000,
}

var (
	// globalStep is an eighth-octave rate scale: mantissa 8..15,
	// exponent from the top 4 bits of the rate.
	globalStep [128]int32

	// sampleLog8 decodes 8-bit logarithmic samples. The top half of the
	// index is positive and the bottom half is the negated mirror.
	sampleLog8 [256]int16
)

func init() {
	for i := range globalStep {
		globalStep[i] = int32(8+(i&7)) << uint(i>>3)
	}
	for i := 0; i < 128; i++ {
		base := int32(i&0x1f)<<uint(3+(i>>5)) + (int32(1)<<uint(i>>5)-1)<<8
		sampleLog8[0x80+i] = int16(base << 3)
		sampleLog8[0x7f-i] = int16(-(base << 3))
	}
}
