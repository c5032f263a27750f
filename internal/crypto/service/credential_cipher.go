package service

import (
	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
)

// CredentialCipherService encrypts connection passwords before they are persisted.
type CredentialCipherService struct {
	aead AEAD
}

// NewCredentialCipher builds the cipher for key and alg. Construction fails fast on a key
// that is not exactly 32 bytes. The caller may zero key once this returns.
func NewCredentialCipher(
	manager AEADManager,
	key []byte,
	alg cryptoDomain.Algorithm,
) (*CredentialCipherService, error) {
	aead, err := manager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return &CredentialCipherService{aead: aead}, nil
}

// Encrypt returns nonce‖ciphertext‖tag.
func (s *CredentialCipherService) Encrypt(plaintext []byte) ([]byte, error) {
	blob, err := s.aead.Seal(plaintext)
	if err != nil {
		return nil, err
	}
	return blob.Bytes(), nil
}

// Decrypt reverses Encrypt.
func (s *CredentialCipherService) Decrypt(raw []byte) ([]byte, error) {
	blob, err := cryptoDomain.ParseEncryptedBlob(raw)
	if err != nil {
		return nil, err
	}
	return s.aead.Open(blob)
}

// EncryptString encrypts plaintext and returns the hex text form.
func (s *CredentialCipherService) EncryptString(plaintext string) (string, error) {
	blob, err := s.aead.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return blob.String(), nil
}

// DecryptString decodes the hex text form and decrypts it.
func (s *CredentialCipherService) DecryptString(text string) (string, error) {
	blob, err := cryptoDomain.ParseEncryptedBlobHex(text)
	if err != nil {
		return "", err
	}
	plaintext, err := s.aead.Open(blob)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
