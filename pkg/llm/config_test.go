package llm

import (
	"testing"
)

func TestNewProvider(t *testing.T) {
	cases := map[string]interface{}{
		"openai":    &OpenAIProvider{},
		"anthropic": &AnthropicProvider{},
		"ollama":    &OllamaProvider{},
	}
	for name := range cases {
		provider, err := NewProvider(Config{Provider: name, Model: "m"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if provider == nil {
			t.Fatalf("%s: nil provider", name)
		}
	}

	if _, err := NewProvider(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatal("empty config must be disabled")
	}
	if !(Config{Model: "gpt-test"}).Enabled() {
		t.Fatal("config with model must be enabled")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")

	cfg := LoadConfig()
	if cfg.Provider != "openai" {
		t.Fatalf("expected default provider openai, got %q", cfg.Provider)
	}
	if cfg.Enabled() {
		t.Fatal("expected disabled without model")
	}
}
