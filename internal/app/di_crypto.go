package app

import (
	"context"
	"fmt"

	"github.com/allisson/nexusdb/internal/config"
	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service used to unwrap the credential key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// CredentialCipher returns the cipher protecting stored connection passwords.
func (c *Container) CredentialCipher() (cryptoService.CredentialCipher, error) {
	var err error
	c.credentialCipherInit.Do(func() {
		c.credentialCipher, err = c.initCredentialCipher()
		if err != nil {
			c.initErrors["credentialCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialCipher"]; exists {
		return nil, storedErr
	}
	return c.credentialCipher, nil
}

// initCredentialCipher decodes ENCRYPTION_KEY, unwrapping it through the KMS when
// KMS_KEY_URI is set. The raw key is zeroed once the cipher holds it.
func (c *Container) initCredentialCipher() (cryptoService.CredentialCipher, error) {
	alg, err := cryptoDomain.ParseAlgorithm(c.config.EncryptionAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption algorithm: %w", err)
	}

	var key []byte
	if c.config.KMSKeyURI != "" {
		key, err = cryptoService.UnwrapKey(
			context.Background(),
			c.KMSService(),
			c.config.KMSKeyURI,
			c.config.EncryptionKey,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap encryption key: %w", err)
		}
	} else {
		key, err = config.ParseHexKey(c.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
	}
	defer cryptoDomain.Zero(key)

	cipher, err := cryptoService.NewCredentialCipher(c.AEADManager(), key, alg)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential cipher: %w", err)
	}
	return cipher, nil
}
