package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestStaticAuthorizer(t *testing.T) {
	a, err := NewStaticAuthorizer([]string{"sk_owner=cold-1", " sk_op=hot-1 ", ""})
	if err != nil {
		t.Fatalf("NewStaticAuthorizer: %v", err)
	}

	actor, err := a.Authorize(context.Background(), "sk_owner")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if actor.Address != "cold-1" {
		t.Fatalf("address: want cold-1, got %s", actor.Address)
	}

	if _, err := a.Authorize(context.Background(), "sk_unknown"); !errors.Is(err, ErrInvalidAPIKey) {
		t.Fatalf("unknown key: want ErrInvalidAPIKey, got %v", err)
	}
}

func TestStaticAuthorizerRejectsMalformedPairs(t *testing.T) {
	if _, err := NewStaticAuthorizer([]string{"no-separator"}); err == nil {
		t.Fatal("want error for malformed pair")
	}
	if _, err := NewStaticAuthorizer([]string{"=addr"}); err == nil {
		t.Fatal("want error for empty key")
	}
}

func TestExtractAPIKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, err := ExtractAPIKey(r); err == nil {
		t.Fatal("want error for missing header")
	}

	r.Header.Set("Authorization", "Basic abc")
	if _, err := ExtractAPIKey(r); err == nil {
		t.Fatal("want error for non-bearer scheme")
	}

	r.Header.Set("Authorization", "Bearer sk_test")
	key, err := ExtractAPIKey(r)
	if err != nil || key != "sk_test" {
		t.Fatalf("got key=%q err=%v", key, err)
	}
}
