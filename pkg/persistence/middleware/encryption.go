package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/ports"
)

// Middleware wraps a history store with additional behavior.
type Middleware func(next ports.HistoryStore) ports.HistoryStore

// envelopeRole marks the single message of an encrypted envelope thread.
const envelopeRole = domain.Role("encrypted")

// EncryptionConfig carries the key material for the thread envelope.
type EncryptionConfig struct {
	// ActiveKey seals every new save. AES-256, so exactly 32 bytes.
	ActiveKey []byte

	// FallbackKeys are earlier keys still accepted on load, which lets a
	// deployment rotate ActiveKey without stranding stored threads.
	FallbackKeys [][]byte
}

type sealedStore struct {
	next ports.HistoryStore
	cfg  EncryptionConfig
}

// NewEncryptionMiddleware returns a middleware that seals thread history
// with AES-GCM before it reaches the underlying store.
func NewEncryptionMiddleware(cfg EncryptionConfig) Middleware {
	if len(cfg.ActiveKey) != 32 {
		panic("encryption key must be exactly 32 bytes")
	}
	return func(next ports.HistoryStore) ports.HistoryStore {
		return &sealedStore{next: next, cfg: cfg}
	}
}

// ParseKey decodes a key from its environment representation: standard
// base64 of 32 bytes, or the raw 32-byte string itself.
func ParseKey(s string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil && len(decoded) == 32 {
		return decoded, nil
	}
	if len(s) == 32 {
		return []byte(s), nil
	}
	return nil, errors.New("store key must be 32 bytes, raw or base64-encoded")
}

func (s *sealedStore) Save(ctx context.Context, thread *domain.Thread) error {
	plain, err := json.Marshal(thread)
	if err != nil {
		return fmt.Errorf("failed to marshal thread: %w", err)
	}

	sealed, err := seal(s.cfg.ActiveKey, plain)
	if err != nil {
		return fmt.Errorf("failed to encrypt thread: %w", err)
	}

	// The envelope keeps phase and round count visible for monitoring;
	// the conversation itself is opaque.
	envelope := domain.NewThread(thread.ID)
	envelope.Phase = thread.Phase
	envelope.Rounds = thread.Rounds
	envelope.CreatedAt = thread.CreatedAt
	envelope.UpdatedAt = thread.UpdatedAt
	envelope.Messages = []domain.Message{{
		Role:    envelopeRole,
		Content: base64.StdEncoding.EncodeToString(sealed),
	}}

	return s.next.Save(ctx, envelope)
}

func (s *sealedStore) Load(ctx context.Context, threadID string) (*domain.Thread, error) {
	envelope, err := s.next.Load(ctx, threadID)
	if err != nil {
		return nil, err
	}

	// Fail secure: once encryption is configured, a plain thread is a fault,
	// not a migration path.
	if len(envelope.Messages) != 1 || envelope.Messages[0].Role != envelopeRole {
		return nil, errors.New("thread is missing the encrypted envelope")
	}

	sealed, err := base64.StdEncoding.DecodeString(envelope.Messages[0].Content)
	if err != nil {
		return nil, fmt.Errorf("envelope payload is not base64: %w", err)
	}

	plain, err := unsealAny(s.cfg, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt thread: %w", err)
	}

	var thread domain.Thread
	if err := json.Unmarshal(plain, &thread); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted thread: %w", err)
	}
	return &thread, nil
}

func (s *sealedStore) Delete(ctx context.Context, threadID string) error {
	return s.next.Delete(ctx, threadID)
}

func (s *sealedStore) List(ctx context.Context) ([]string, error) {
	return s.next.List(ctx)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// seal encrypts plain with a fresh random nonce prepended to the output.
func seal(key, plain []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func unseal(key, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("sealed payload shorter than the nonce")
	}
	nonce, payload := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, payload, nil)
}

// unsealAny tries the active key first, then each fallback in order.
func unsealAny(cfg EncryptionConfig, sealed []byte) ([]byte, error) {
	keys := append([][]byte{cfg.ActiveKey}, cfg.FallbackKeys...)
	for _, key := range keys {
		if plain, err := unseal(key, sealed); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("no configured key opens this thread")
}
