package secrets

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

type stubSecretClient struct {
	responses map[string]string
	calls     []string
	err       error
}

func (s *stubSecretClient) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	s.calls = append(s.calls, req.GetName())
	if s.err != nil {
		return nil, s.err
	}
	payload, ok := s.responses[req.GetName()]
	if !ok {
		return nil, errors.New("not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(payload)},
	}, nil
}

func (s *stubSecretClient) Close() error { return nil }

func TestResolve_PlainValuePassesThrough(t *testing.T) {
	fetcher, err := NewFetcher(context.Background(), WithClient(&stubSecretClient{}))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	got, err := fetcher.Resolve(context.Background(), " sk-plain-key ")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "sk-plain-key" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
}

func TestResolve_SecretReference(t *testing.T) {
	stub := &stubSecretClient{responses: map[string]string{
		"projects/travel/secrets/openai/versions/latest": "sk-secret",
	}}
	fetcher, err := NewFetcher(context.Background(), WithClient(stub))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	got, err := fetcher.Resolve(context.Background(), "sm://travel/openai")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "sk-secret" {
		t.Fatalf("expected secret payload, got %q", got)
	}

	// Second resolution must hit the cache, not the API.
	if _, err := fetcher.Resolve(context.Background(), "sm://travel/openai"); err != nil {
		t.Fatalf("Resolve cached: %v", err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected one API call, got %d", len(stub.calls))
	}
}

func TestResolve_PinnedVersion(t *testing.T) {
	stub := &stubSecretClient{responses: map[string]string{
		"projects/travel/secrets/stripe/versions/7": "sk-pinned",
	}}
	fetcher, err := NewFetcher(context.Background(), WithClient(stub))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	got, err := fetcher.Resolve(context.Background(), "sm://travel/stripe/7")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "sk-pinned" {
		t.Fatalf("expected pinned secret payload, got %q", got)
	}
}

func TestResolve_MalformedReference(t *testing.T) {
	fetcher, err := NewFetcher(context.Background(), WithClient(&stubSecretClient{}))
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	if _, err := fetcher.Resolve(context.Background(), "sm://only-one-part"); err == nil {
		t.Fatalf("expected error for malformed reference")
	}
}
