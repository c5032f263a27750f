package domain

import (
	"encoding/hex"
)

// EncryptedBlob is a credential encrypted at rest: a fresh random nonce and the
// ciphertext with its authentication tag appended.
//
// The wire layout is nonce‖ciphertext‖tag; its text form is the lowercase hex of that.
type EncryptedBlob struct {
	Nonce      []byte
	Ciphertext []byte
}

// Bytes returns nonce‖ciphertext.
func (b EncryptedBlob) Bytes() []byte {
	out := make([]byte, 0, len(b.Nonce)+len(b.Ciphertext))
	out = append(out, b.Nonce...)
	return append(out, b.Ciphertext...)
}

// String returns the hex text form stored in the database.
func (b EncryptedBlob) String() string {
	return hex.EncodeToString(b.Bytes())
}

// ParseEncryptedBlob splits raw nonce‖ciphertext bytes. Input too short to hold a nonce
// and a tag is rejected with ErrDecryptionFailed.
func ParseEncryptedBlob(raw []byte) (EncryptedBlob, error) {
	if len(raw) < NonceSize+TagSize {
		return EncryptedBlob{}, ErrDecryptionFailed
	}
	return EncryptedBlob{Nonce: raw[:NonceSize], Ciphertext: raw[NonceSize:]}, nil
}

// ParseEncryptedBlobHex decodes the hex text form. Malformed hex is ErrDecryptionFailed.
func ParseEncryptedBlobHex(text string) (EncryptedBlob, error) {
	raw, err := hex.DecodeString(text)
	if err != nil {
		return EncryptedBlob{}, ErrDecryptionFailed
	}
	return ParseEncryptedBlob(raw)
}
