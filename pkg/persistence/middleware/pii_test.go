package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := memory.New()
	// Mask nine-digit document numbers in text and any argument key
	// mentioning a passport.
	mw := middleware.NewPIIMiddleware([]string{`\b\d{9}\b`, "passport"})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	thread := domain.NewThread("pii-thread")
	thread.Append(
		domain.NewUserMessage("Book a flight, my ID is 123456789"),
		domain.NewAssistantMessage("On it.", domain.ToolCall{
			ID:   "call-1",
			Name: domain.ToolSearchFlights,
			Args: map[string]any{
				"departure_id":    "BOS",
				"passport_number": "123456789",
				"traveler": map[string]any{
					"name":        "Ada",
					"passport_no": "987654321",
				},
			},
		}),
	)

	// 1. Save
	if err := secureStore.Save(ctx, thread); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Verify the in-memory thread is NOT MODIFIED (Immutability check)
	if thread.Messages[0].Content != "Book a flight, my ID is 123456789" {
		t.Error("Middleware modified original message in memory!")
	}
	if thread.Messages[1].ToolCalls[0].Args["passport_number"] != "123456789" {
		t.Error("Middleware modified original tool call args in memory!")
	}

	// 2. Load from Underlying Store (Should be masked)
	stored, err := underlyingStore.Load(ctx, "pii-thread")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	if stored.Messages[0].Content != "Book a flight, my ID is ***" {
		t.Errorf("Content should be masked, got: %q", stored.Messages[0].Content)
	}

	args := stored.Messages[1].ToolCalls[0].Args
	if args["departure_id"] != "BOS" {
		t.Error("Departure shouldn't be masked")
	}
	if args["passport_number"] != "***" {
		t.Errorf("Passport number should be masked, got: %v", args["passport_number"])
	}

	traveler := args["traveler"].(map[string]any)
	if traveler["name"] != "Ada" {
		t.Error("Traveler name shouldn't be masked")
	}
	if traveler["passport_no"] != "***" {
		t.Errorf("Nested passport should be masked, got: %v", traveler["passport_no"])
	}
}

func TestPIIMiddleware_ChainsWithEncryption(t *testing.T) {
	underlyingStore := memory.New()
	encrypt := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: randomKey(t)})
	mask := middleware.NewPIIMiddleware([]string{`\b\d{9}\b`})

	// Masking wraps encryption so patterns run against plaintext.
	secureStore := mask(encrypt(underlyingStore))

	ctx := context.Background()
	thread := domain.NewThread("chain-thread")
	thread.Append(domain.NewUserMessage("My booking reference is 555123456"))

	if err := secureStore.Save(ctx, thread); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, "chain-thread")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if len(stored.Messages) != 1 || stored.Messages[0].Role != domain.Role("encrypted") {
		t.Fatal("Expected an encrypted envelope beneath the chain")
	}

	loaded, err := secureStore.Load(ctx, "chain-thread")
	if err != nil {
		t.Fatalf("Load via chain failed: %v", err)
	}
	if loaded.Messages[0].Content != "My booking reference is ***" {
		t.Errorf("Expected masked plaintext after decryption, got: %q", loaded.Messages[0].Content)
	}
}
