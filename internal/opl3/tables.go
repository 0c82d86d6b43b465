package opl3

// Package-level constant tables transcribed from the chip's logic
// tables: waveform/logsin/exp lookups, the slot<->word<->channel index
// permutations the hardware pipelines its 36 active operators through,
// and the connection descriptors that wire operator pairs together.
//
// Word index: position 0-63 in the lane layout this port processes
// operators in (eight 8-wide groups; a channel's two operators sit in
// different groups, see ch2xToWord). Slot
// index: the register-address-space operator index (0-63, of which 36
// are real). Ch2x index: 2-operator channel index (0-31, of which 18
// are real). Ch4x index: 4-operator channel pairing index (0-15).

const (
	slotNumMax    = 64
	slotNum       = 36
	channelNumMax = 32
	channelNum    = 18
	slotGroupNum  = 8
	slotGroupLen  = 8
	connNumMax    = 6
	sampleRate    = 49716

	regQueueLength = 256
	regQueueLatency = 2

	egTimerHibit uint64 = 1 << 36
	egTimerMask  uint64 = egTimerHibit - 1

	egGenAttack  = 0
	egGenDecay   = 1
	egGenSustain = 2
	egGenRelease = 3

	egKeyNormal uint16 = 1 << 0
	egKeyDrum   uint16 = 1 << 8
)

// exp2xTable is the exponential lookup table, pre-multiplied by 2.
var exp2xTable = [256 + 4]int16{
	0x0FF4, 0x0FEA, 0x0FDE, 0x0FD4, 0x0FC8, 0x0FBE, 0x0FB4, 0x0FA8,
	0x0F9E, 0x0F92, 0x0F88, 0x0F7E, 0x0F72, 0x0F68, 0x0F5C, 0x0F52,
	0x0F48, 0x0F3E, 0x0F32, 0x0F28, 0x0F1E, 0x0F14, 0x0F08, 0x0EFE,
	0x0EF4, 0x0EEA, 0x0EE0, 0x0ED4, 0x0ECA, 0x0EC0, 0x0EB6, 0x0EAC,
	0x0EA2, 0x0E98, 0x0E8E, 0x0E84, 0x0E7A, 0x0E70, 0x0E66, 0x0E5C,
	0x0E52, 0x0E48, 0x0E3E, 0x0E34, 0x0E2A, 0x0E20, 0x0E16, 0x0E0C,
	0x0E04, 0x0DFA, 0x0DF0, 0x0DE6, 0x0DDC, 0x0DD2, 0x0DCA, 0x0DC0,
	0x0DB6, 0x0DAC, 0x0DA4, 0x0D9A, 0x0D90, 0x0D88, 0x0D7E, 0x0D74,
	0x0D6A, 0x0D62, 0x0D58, 0x0D50, 0x0D46, 0x0D3C, 0x0D34, 0x0D2A,
	0x0D22, 0x0D18, 0x0D10, 0x0D06, 0x0CFE, 0x0CF4, 0x0CEC, 0x0CE2,
	0x0CDA, 0x0CD0, 0x0CC8, 0x0CBE, 0x0CB6, 0x0CAE, 0x0CA4, 0x0C9C,
	0x0C92, 0x0C8A, 0x0C82, 0x0C78, 0x0C70, 0x0C68, 0x0C60, 0x0C56,
	0x0C4E, 0x0C46, 0x0C3C, 0x0C34, 0x0C2C, 0x0C24, 0x0C1C, 0x0C12,
	0x0C0A, 0x0C02, 0x0BFA, 0x0BF2, 0x0BEA, 0x0BE0, 0x0BD8, 0x0BD0,
	0x0BC8, 0x0BC0, 0x0BB8, 0x0BB0, 0x0BA8, 0x0BA0, 0x0B98, 0x0B90,
	0x0B88, 0x0B80, 0x0B78, 0x0B70, 0x0B68, 0x0B60, 0x0B58, 0x0B50,
	0x0B48, 0x0B40, 0x0B38, 0x0B32, 0x0B2A, 0x0B22, 0x0B1A, 0x0B12,
	0x0B0A, 0x0B02, 0x0AFC, 0x0AF4, 0x0AEC, 0x0AE4, 0x0ADE, 0x0AD6,
	0x0ACE, 0x0AC6, 0x0AC0, 0x0AB8, 0x0AB0, 0x0AA8, 0x0AA2, 0x0A9A,
	0x0A92, 0x0A8C, 0x0A84, 0x0A7C, 0x0A76, 0x0A6E, 0x0A68, 0x0A60,
	0x0A58, 0x0A52, 0x0A4A, 0x0A44, 0x0A3C, 0x0A36, 0x0A2E, 0x0A28,
	0x0A20, 0x0A18, 0x0A12, 0x0A0C, 0x0A04, 0x09FE, 0x09F6, 0x09F0,
	0x09E8, 0x09E2, 0x09DA, 0x09D4, 0x09CE, 0x09C6, 0x09C0, 0x09B8,
	0x09B2, 0x09AC, 0x09A4, 0x099E, 0x0998, 0x0990, 0x098A, 0x0984,
	0x097C, 0x0976, 0x0970, 0x096A, 0x0962, 0x095C, 0x0956, 0x0950,
	0x0948, 0x0942, 0x093C, 0x0936, 0x0930, 0x0928, 0x0922, 0x091C,
	0x0916, 0x0910, 0x090A, 0x0904, 0x08FC, 0x08F6, 0x08F0, 0x08EA,
	0x08E4, 0x08DE, 0x08D8, 0x08D2, 0x08CC, 0x08C6, 0x08C0, 0x08BA,
	0x08B4, 0x08AE, 0x08A8, 0x08A2, 0x089C, 0x0896, 0x0890, 0x088A,
	0x0884, 0x087E, 0x0878, 0x0872, 0x086C, 0x0866, 0x0860, 0x085A,
	0x0854, 0x0850, 0x084A, 0x0844, 0x083E, 0x0838, 0x0832, 0x082C,
	0x0828, 0x0822, 0x081C, 0x0816, 0x0810, 0x080C, 0x0806, 0x0800,
	0x0800, 0x0800, 0x0800, 0x0800,
}

// logsinTable is the logarithmic-sine lookup table covering a quarter period.
var logsinTable = [256 + 4]int16{
	0x0859, 0x06C3, 0x0607, 0x058B, 0x052E, 0x04E4, 0x04A6, 0x0471,
	0x0443, 0x041A, 0x03F5, 0x03D3, 0x03B5, 0x0398, 0x037E, 0x0365,
	0x034E, 0x0339, 0x0324, 0x0311, 0x02FF, 0x02ED, 0x02DC, 0x02CD,
	0x02BD, 0x02AF, 0x02A0, 0x0293, 0x0286, 0x0279, 0x026D, 0x0261,
	0x0256, 0x024B, 0x0240, 0x0236, 0x022C, 0x0222, 0x0218, 0x020F,
	0x0206, 0x01FD, 0x01F5, 0x01EC, 0x01E4, 0x01DC, 0x01D4, 0x01CD,
	0x01C5, 0x01BE, 0x01B7, 0x01B0, 0x01A9, 0x01A2, 0x019B, 0x0195,
	0x018F, 0x0188, 0x0182, 0x017C, 0x0177, 0x0171, 0x016B, 0x0166,
	0x0160, 0x015B, 0x0155, 0x0150, 0x014B, 0x0146, 0x0141, 0x013C,
	0x0137, 0x0133, 0x012E, 0x0129, 0x0125, 0x0121, 0x011C, 0x0118,
	0x0114, 0x010F, 0x010B, 0x0107, 0x0103, 0x00FF, 0x00FB, 0x00F8,
	0x00F4, 0x00F0, 0x00EC, 0x00E9, 0x00E5, 0x00E2, 0x00DE, 0x00DB,
	0x00D7, 0x00D4, 0x00D1, 0x00CD, 0x00CA, 0x00C7, 0x00C4, 0x00C1,
	0x00BE, 0x00BB, 0x00B8, 0x00B5, 0x00B2, 0x00AF, 0x00AC, 0x00A9,
	0x00A7, 0x00A4, 0x00A1, 0x009F, 0x009C, 0x0099, 0x0097, 0x0094,
	0x0092, 0x008F, 0x008D, 0x008A, 0x0088, 0x0086, 0x0083, 0x0081,
	0x007F, 0x007D, 0x007A, 0x0078, 0x0076, 0x0074, 0x0072, 0x0070,
	0x006E, 0x006C, 0x006A, 0x0068, 0x0066, 0x0064, 0x0062, 0x0060,
	0x005E, 0x005C, 0x005B, 0x0059, 0x0057, 0x0055, 0x0053, 0x0052,
	0x0050, 0x004E, 0x004D, 0x004B, 0x004A, 0x0048, 0x0046, 0x0045,
	0x0043, 0x0042, 0x0040, 0x003F, 0x003E, 0x003C, 0x003B, 0x0039,
	0x0038, 0x0037, 0x0035, 0x0034, 0x0033, 0x0031, 0x0030, 0x002F,
	0x002E, 0x002D, 0x002B, 0x002A, 0x0029, 0x0028, 0x0027, 0x0026,
	0x0025, 0x0024, 0x0023, 0x0022, 0x0021, 0x0020, 0x001F, 0x001E,
	0x001D, 0x001C, 0x001B, 0x001A, 0x0019, 0x0018, 0x0017, 0x0017,
	0x0016, 0x0015, 0x0014, 0x0014, 0x0013, 0x0012, 0x0011, 0x0011,
	0x0010, 0x000F, 0x000F, 0x000E, 0x000D, 0x000D, 0x000C, 0x000C,
	0x000B, 0x000A, 0x000A, 0x0009, 0x0009, 0x0008, 0x0008, 0x0007,
	0x0007, 0x0007, 0x0006, 0x0006, 0x0005, 0x0005, 0x0005, 0x0004,
	0x0004, 0x0004, 0x0003, 0x0003, 0x0003, 0x0002, 0x0002, 0x0002,
	0x0002, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001, 0x0001,
	0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000,
	0x0000, 0x0000, 0x0000, 0x0000,
}

var wordToSlot = [slotNumMax]int8{
	0, 1, 2, 48, 18, 19, 20, 52,
	12, 13, 14, 56, 30, 31, 32, 60,
	3, 4, 5, 49, 21, 22, 23, 53,
	15, 16, 17, 57, 33, 34, 35, 61,
	6, 7, 8, 50, 24, 25, 26, 54,
	42, 43, 44, 58, 36, 37, 38, 62,
	9, 10, 11, 51, 27, 28, 29, 55,
	45, 46, 47, 59, 39, 40, 41, 63,
}

var slotToWord = [slotNumMax]int8{
	0, 1, 2, 16, 17, 18, 32, 33,
	34, 48, 49, 50, 8, 9, 10, 24,
	25, 26, 4, 5, 6, 20, 21, 22,
	36, 37, 38, 52, 53, 54, 12, 13,
	14, 28, 29, 30, 44, 45, 46, 60,
	61, 62, 40, 41, 42, 56, 57, 58,
	3, 19, 35, 51, 7, 23, 39, 55,
	11, 27, 43, 59, 15, 31, 47, 63,
}

var wordToCh2x = [slotNumMax]int8{
	0, 1, 2, 24, 9, 10, 11, 26,
	6, 7, 8, 28, 15, 16, 17, 30,
	0, 1, 2, 24, 9, 10, 11, 26,
	6, 7, 8, 28, 15, 16, 17, 30,
	3, 4, 5, 25, 12, 13, 14, 27,
	21, 22, 23, 29, 18, 19, 20, 31,
	3, 4, 5, 25, 12, 13, 14, 27,
	21, 22, 23, 29, 18, 19, 20, 31,
}

var ch2xToWord = [slotNumMax / 2][2]int8{
	{0, 16}, {1, 17}, {2, 18}, {32, 48},
	{33, 49}, {34, 50}, {8, 24}, {9, 25},
	{10, 26}, {4, 20}, {5, 21}, {6, 22},
	{36, 52}, {37, 53}, {38, 54}, {12, 28},
	{13, 29}, {14, 30}, {44, 60}, {45, 61},
	{46, 62}, {40, 56}, {41, 57}, {42, 58},
	{3, 19}, {35, 51}, {7, 23}, {39, 55},
	{11, 27}, {43, 59}, {15, 31}, {47, 63},
}

var ch4xToPair = [channelNumMax / 2][2]int8{
	{0, 3}, {1, 4}, {2, 5},
	{9, 12}, {10, 13}, {11, 14},
	{6, 21}, {7, 22}, {8, 23},
	{15, 18}, {16, 19}, {17, 20},
	{24, 25}, {26, 27}, {28, 29}, {30, 31},
}

// ch2xPaired maps a 2-operator channel index to the partner channel it
// would form a 4-operator pair with, when 4-op pairing is enabled.
var ch2xPaired = [channelNumMax]int8{
	3, 4, 5,
	0, 1, 2,
	21, 22, 23,
	12, 13, 14,
	9, 10, 11,
	18, 19, 20,
	15, 16, 17,
	6, 7, 8,
	25, 24, 27, 26,
	29, 28, 31, 30,
}

// subaddrToSlot and subaddrToCh2x decode the register sub-address
// (low bits of the address plus the bank-select bit) into slot/channel
// indices. The original reference ORs the bank bit directly into bit 0
// without shifting it into the upper half of the table, which collides
// with the low address bits instead of selecting bank 1; this port
// shifts the bank bit into its own bit per addrToSlot/addrToCh2x below.
var subaddrToSlot = [slotNumMax]int8{
	0, 1, 2, 3, 4, 5, 48, 49,
	6, 7, 8, 9, 10, 11, 50, 51,
	12, 13, 14, 15, 16, 17, 52, 53,
	36, 37, 38, 39, 40, 41, 54, 55,

	18, 19, 20, 21, 22, 23, 56, 57,
	24, 25, 26, 27, 28, 29, 58, 59,
	30, 31, 32, 33, 34, 35, 60, 61,
	42, 43, 44, 45, 46, 47, 62, 63,
}

var subaddrToCh2x = [channelNumMax]int8{
	0, 1, 2, 3, 4, 5, 6, 7, 8,
	18, 19, 20, 21, 22, 23, 24,

	9, 10, 11, 12, 13, 14, 15, 16, 17,
	25, 26, 27, 28, 29, 30, 31,
}

// addrToSlot decodes a register address into a slot index. Offsets that
// name no real operator decode onto the reserved slots 36-63.
func addrToSlot(address uint16) int8 {
	subaddr := (address & 0x1F) | (((address >> 8) & 1) << 5)
	return subaddrToSlot[subaddr]
}

// addrToCh2x decodes a register address into a 2-operator channel
// index. Offsets 9-15 of each bank decode onto the reserved channels
// 18-31.
func addrToCh2x(address uint16) int8 {
	subaddr := (address & 0x0F) | (((address >> 8) & 1) << 4)
	return subaddrToCh2x[subaddr]
}

var pgMultX2Table = [16]int8{
	1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30,
}

var egKslTable = [16]int8{
	0, 32, 40, 45, 48, 51, 53, 55, 56, 58, 59, 60, 61, 62, 63, 64,
}

var egKslshTable = [4]int8{8, 1, 2, 0}

var egIncstepTable = [4]uint16{
	(1 << 3) | (1 << 2) | (1 << 1) | (0 << 0),
	(1 << 3) | (0 << 2) | (0 << 1) | (0 << 0),
	(1 << 3) | (1 << 2) | (0 << 1) | (0 << 0),
	(0 << 3) | (0 << 2) | (0 << 1) | (0 << 0),
}

// waveDescriptor shapes how a slot's raw phase turns into a lookup
// index and sign for the logsin/exp pipeline.
type waveDescriptor struct {
	phaseShl  uint8
	phaseZero uint16
	phaseNeg  uint16
	phaseFlip uint16
	phaseMask uint16
	sineGate  bool // false => bypass logsin, use phase index as amplitude directly
}

var waveTable = [8]waveDescriptor{
	{0, 0x0000, 0x0200, 0x0100, 0x00FF, true},
	{0, 0x0200, 0x0000, 0x0100, 0x00FF, true},
	{0, 0x0000, 0x0000, 0x0100, 0x00FF, true},
	{0, 0x0100, 0x0000, 0x0100, 0x00FF, true},
	{1, 0x0400, 0x0200, 0x0100, 0x00FF, true},
	{1, 0x0400, 0x0000, 0x0100, 0x00FF, true},
	{0, 0x0000, 0x0200, 0x0200, 0x0001, false},
	{3, 0x0000, 0x1000, 0x1000, 0x1FFF, false},
}

// connDescriptor gates a slot's feedback/modulation/output wiring.
type connDescriptor struct {
	wgFbmodGate bool
	wgPrmodGate bool
	ogOutGate   bool
}

var connCh2xTable = [2][2]connDescriptor{
	{
		{true, false, false},
		{false, true, true},
	},
	{
		{true, false, true},
		{false, false, true},
	},
}

var connCh4xTable = [4][4]connDescriptor{
	{
		{true, false, false},
		{false, true, false},
		{false, true, false},
		{false, true, true},
	},
	{
		{true, false, false},
		{false, true, true},
		{false, false, false},
		{false, true, true},
	},
	{
		{true, false, true},
		{false, false, false},
		{false, true, false},
		{false, true, true},
	},
	{
		{true, false, true},
		{false, false, false},
		{false, true, true},
		{false, false, true},
	},
}

var connRytTable = [4][2]connDescriptor{
	// Channel 6: BD, FM
	{
		{true, false, false},
		{false, true, true},
	},
	// Channel 6: BD, AM
	{
		{true, false, false},
		{false, false, true},
	},
	// Channel 7: HH + SD
	{
		{false, false, true},
		{false, false, true},
	},
	// Channel 8: TT + TC
	{
		{false, false, true},
		{false, false, true},
	},
}

// ogProutAC/ogProutBD mark, per slot group, which lanes feed the A/C
// (resp. B/D) output accumulators from the previous tick's wave output
// rather than the one just computed. Bit i of each entry is lane i.
var ogProutACMask = [slotGroupNum]uint8{0xF8, 0xF8, 0xF8, 0xFF, 0xF8, 0xFF, 0xF8, 0xFF}
var ogProutBDMask = [slotGroupNum]uint8{0x88, 0xF8, 0x88, 0xF8, 0x88, 0xFF, 0x88, 0xFF}

// wordUsesPriorAC/BD report whether the slot occupying this word uses
// its previous-tick wave output for the A/C (resp. B/D) accumulators.
func wordUsesPriorAC(word int) bool {
	group, lane := word/slotGroupLen, uint(word%slotGroupLen)
	return ogProutACMask[group]&(1<<lane) != 0
}

func wordUsesPriorBD(word int) bool {
	group, lane := word/slotGroupLen, uint(word%slotGroupLen)
	return ogProutBDMask[group]&(1<<lane) != 0
}
