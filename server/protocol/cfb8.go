package protocol

import "crypto/cipher"

// cfb8 implements 8-bit-feedback CFB (CFB8) over an arbitrary block cipher.
// The Java Edition protocol encrypts its stream with AES-128/CFB8, which the
// standard library does not provide: crypto/cipher.NewCFBEncrypter/Decrypter
// implement full-block-width CFB (128-bit feedback), not CFB8. Every known
// Go Minecraft implementation hand-rolls this for the same reason.
type cfb8 struct {
	block    cipher.Block
	feedback []byte
	decrypt  bool
}

// newCFB8 returns a cipher.Stream seeded with iv as the initial feedback
// register. The Java Edition handshake reuses the shared secret as both the
// AES key and the CFB8 IV, so iv is typically the same slice as the key.
func newCFB8(block cipher.Block, iv []byte, decrypt bool) *cfb8 {
	reg := make([]byte, len(iv))
	copy(reg, iv)
	return &cfb8{block: block, feedback: reg, decrypt: decrypt}
}

// XORKeyStream implements cipher.Stream. dst and src may overlap exactly,
// matching the stdlib Stream contract.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	blockSize := len(c.feedback)
	segment := make([]byte, blockSize)
	for i, in := range src {
		c.block.Encrypt(segment, c.feedback)

		out := in ^ segment[0]
		var next byte
		if c.decrypt {
			next = in
		} else {
			next = out
		}

		copy(c.feedback, c.feedback[1:])
		c.feedback[blockSize-1] = next

		dst[i] = out
	}
}
