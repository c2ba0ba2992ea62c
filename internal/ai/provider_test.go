// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"slices"
	"testing"
)

// mockProvider is a canned-response Provider for registry tests.
type mockProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockProvider) Name() string { return m.name }

func TestNewRegistry_SkipsProvidersWithoutKeys(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "k1", Model: "gpt-4o"},
		"gemini": {APIKey: "", Model: "gemini-pro"},
		"claude": {APIKey: "k3", Model: "claude-sonnet-4-6"},
	})

	available := reg.Available()
	slices.Sort(available)
	want := []string{"claude", "openai"}
	if !slices.Equal(available, want) {
		t.Errorf("Available() = %v, want %v", available, want)
	}
	if reg.HasProvider("gemini") {
		t.Error("gemini should be unavailable without an API key")
	}
}

func TestRegistrySetActive(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "k1", Model: "gpt-4o"},
		"claude": {APIKey: "k2", Model: "claude-sonnet-4-6"},
	})

	if err := reg.SetActive("claude"); err != nil {
		t.Fatalf("SetActive(claude): %v", err)
	}
	if got := reg.ActiveName(); got != "claude" {
		t.Errorf("ActiveName() = %q, want %q", got, "claude")
	}

	if err := reg.SetActive("gemini"); err == nil {
		t.Error("SetActive should reject a provider without an API key")
	}
}

func TestRegistryGenerate_NoActiveProvider(t *testing.T) {
	reg := NewRegistry("gemini", map[string]ProviderConfig{
		"openai": {APIKey: "k1", Model: "gpt-4o"},
	})

	if _, err := reg.Generate(context.Background(), "sys", "usr"); err == nil {
		t.Fatal("Generate should fail when the active provider is unconfigured")
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "k1", Model: "gpt-4o"},
	})

	mock := &mockProvider{name: "custom", response: "custom reply"}
	reg.Register("custom", mock)

	if err := reg.SetActive("custom"); err != nil {
		t.Fatalf("SetActive(custom): %v", err)
	}
	got, err := reg.Generate(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "custom reply" {
		t.Errorf("Generate = %q, want %q", got, "custom reply")
	}
	if mock.calls != 1 {
		t.Errorf("mock provider called %d times, want 1", mock.calls)
	}
}

func TestSupportsImageGeneration(t *testing.T) {
	t.Run("openai with image model", func(t *testing.T) {
		reg := NewRegistry("openai", map[string]ProviderConfig{
			"openai": {APIKey: "k1", Model: "gpt-4o", ImageModel: "dall-e-3"},
		})
		if !reg.SupportsImageGeneration() {
			t.Error("openai provider should support image generation")
		}
	})

	t.Run("claude is text-only", func(t *testing.T) {
		reg := NewRegistry("claude", map[string]ProviderConfig{
			"claude": {APIKey: "k2", Model: "claude-sonnet-4-6"},
		})
		if reg.SupportsImageGeneration() {
			t.Error("claude provider must not report image generation support")
		}
		if _, _, err := reg.GenerateImage(context.Background(), "a lighthouse"); err == nil {
			t.Error("GenerateImage should fail for a text-only provider")
		}
	})
}

func TestCheckPrompt_NoModeratorFailsOpen(t *testing.T) {
	reg := NewRegistry("claude", map[string]ProviderConfig{
		"claude": {APIKey: "k2", Model: "claude-sonnet-4-6"},
	})

	result, err := reg.CheckPrompt(context.Background(), "anything")
	if err != nil {
		t.Fatalf("CheckPrompt: %v", err)
	}
	if !result.Safe {
		t.Error("CheckPrompt without a moderator should report safe")
	}
}
