package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/nexusdb/internal/crypto/domain"
	cryptoService "github.com/allisson/nexusdb/internal/crypto/service"
)

// RunCreateEncryptionKey generates a 32-byte credential encryption key and prints it
// as environment assignments. Without kmsKeyURI the key is printed as 64 hex
// characters. With kmsKeyURI the key is wrapped by the KMS and the base64 ciphertext
// is printed with the KMS settings needed to unwrap it at startup.
//
// The generated key is zeroed before returning.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if kmsKeyURI != "" && kmsProvider == "" {
		return fmt.Errorf("--kms-provider is required when --kms-key-uri is set")
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	if kmsKeyURI == "" {
		logger.Info("generated encryption key", slog.String("mode", "plaintext"))
		_, _ = fmt.Fprintln(writer, "# Store this value in a secret manager. Anyone holding it can decrypt stored credentials.")
		_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", hex.EncodeToString(key))
		return nil
	}

	wrapped, err := cryptoService.WrapKey(ctx, kmsService, kmsKeyURI, key)
	if err != nil {
		return fmt.Errorf("failed to wrap encryption key with KMS: %w", err)
	}

	logger.Info("generated encryption key",
		slog.String("mode", "kms"),
		slog.String("kms_provider", kmsProvider),
	)
	_, _ = fmt.Fprintf(writer, "# KMS Provider: %s\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "ENCRYPTION_KEY=\"%s\"\n", wrapped)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	return nil
}
