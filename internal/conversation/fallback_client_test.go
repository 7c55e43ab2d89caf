package conversation

import (
	"context"
	"errors"
	"testing"
)

func TestFallbackClientUsesPrimaryFirst(t *testing.T) {
	primary := &stubLLMClient{resp: LLMResponse{Text: "primary"}}
	fallback := &stubLLMClient{resp: LLMResponse{Text: "fallback"}}
	client := NewFallbackLLMClient(primary, fallback, nil)

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != "primary" {
		t.Fatalf("text = %q, want primary", resp.Text)
	}
	if fallback.lastReq != nil {
		t.Fatalf("fallback should not have been called")
	}
}

func TestFallbackClientFallsBackOnPrimaryFailure(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("primary down")}
	fallback := &stubLLMClient{resp: LLMResponse{Text: "fallback"}}
	client := NewFallbackLLMClient(primary, fallback, nil)

	resp, err := client.Complete(context.Background(), LLMRequest{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != "fallback" {
		t.Fatalf("text = %q, want fallback", resp.Text)
	}
}

func TestFallbackClientReturnsErrorWithoutFallback(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("primary down")}
	client := NewFallbackLLMClient(primary, nil, nil)

	if _, err := client.Complete(context.Background(), LLMRequest{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFallbackClientReportsFallbackError(t *testing.T) {
	primary := &stubLLMClient{err: errors.New("primary down")}
	fallback := &stubLLMClient{err: errors.New("fallback down")}
	client := NewFallbackLLMClient(primary, fallback, nil)

	_, err := client.Complete(context.Background(), LLMRequest{})
	if err == nil || err.Error() != "fallback down" {
		t.Fatalf("expected fallback error, got %v", err)
	}
}
