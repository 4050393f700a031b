package tile

// Unpack expands packed bytes back to one palette index per byte. It is the
// inverse of the packing done by Encode.
func Unpack(b []byte, depth int) []byte {
	d := uint(depth)
	perByte := bitsPerByte / d
	mask := byte(1<<d - 1)

	pix := make([]byte, 0, len(b)*int(perByte))
	for _, v := range b {
		for i := uint(1); i <= perByte; i++ {
			pix = append(pix, v>>(bitsPerByte-i*d)&mask)
		}
	}
	return pix
}
