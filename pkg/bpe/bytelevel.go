package bpe

// Byte-level BPE does not operate on raw bytes directly. Every byte is
// remapped to a printable unicode rune first so that merge rules and
// vocabulary entries stay visible strings, and so that encoding any byte
// sequence is lossless. Printable latin bytes keep their own rune; the
// remaining bytes are assigned runes from 256 upward in order.
func byteLevelTables() ([256]string, map[rune]byte) {
	var keep []int
	for b := int('!'); b <= int('~'); b++ {
		keep = append(keep, b)
	}
	for b := int('¡'); b <= int('¬'); b++ {
		keep = append(keep, b)
	}
	for b := int('®'); b <= int('ÿ'); b++ {
		keep = append(keep, b)
	}

	mapped := make(map[int]bool, len(keep))
	for _, b := range keep {
		mapped[b] = true
	}

	var enc [256]string
	dec := make(map[rune]byte, 256)
	for _, b := range keep {
		enc[b] = string(rune(b))
		dec[rune(b)] = byte(b)
	}
	n := 0
	for b := 0; b < 256; b++ {
		if mapped[b] {
			continue
		}
		r := rune(256 + n)
		enc[b] = string(r)
		dec[r] = byte(b)
		n++
	}
	return enc, dec
}
