package commands

import (
	"fmt"
	"log/slog"

	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
)

// RunEncryptCredential reads a password from io.Reader and prints its ciphertext under
// the configured encryption key, in the encoding stored in the connections table. The
// prompt suppresses echo on a terminal.
func RunEncryptCredential(cipher cryptoService.CredentialCipher, logger *slog.Logger, io IOTuple) error {
	plaintext, err := readSecret(io.Reader, io.Writer, "Password: ")
	if err != nil {
		return err
	}
	if plaintext == "" {
		return fmt.Errorf("password must not be empty")
	}

	encrypted, err := cipher.EncryptString(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	logger.Info("credential encrypted", slog.Int("ciphertext_length", len(encrypted)))
	_, _ = fmt.Fprintln(io.Writer, encrypted)
	return nil
}
