package auth

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/novem-code/novem-cli/internal/config"
)

func useMockKeyring(t *testing.T) *MockKeyring {
	t.Helper()
	mock := NewMockKeyringProvider()
	SetProviderFunc(func() (KeyringProvider, error) { return mock, nil })
	t.Cleanup(func() { SetProviderFunc(nil) })
	return mock
}

func useNoKeyring(t *testing.T) {
	t.Helper()
	SetProviderFunc(func() (KeyringProvider, error) { return nil, fmt.Errorf("keyring not available") })
	t.Cleanup(func() { SetProviderFunc(nil) })
}

func TestStoreAndGetToken(t *testing.T) {
	useMockKeyring(t)

	if err := StoreToken("work", TokenMetadata{Token: "nbt-1", Username: "alice"}); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	meta, err := GetTokenMetadata("work")
	if err != nil {
		t.Fatalf("GetTokenMetadata: %v", err)
	}
	if meta.Token != "nbt-1" || meta.Username != "alice" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if _, err := GetTokenMetadata("home"); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken for other profile, got %v", err)
	}
}

func TestStoreToken_PreservesCreatedAtForSameToken(t *testing.T) {
	useMockKeyring(t)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := StoreToken("p", TokenMetadata{Token: "same", CreatedAt: created}); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}
	if err := StoreToken("p", TokenMetadata{Token: "same"}); err != nil {
		t.Fatalf("StoreToken: %v", err)
	}

	meta, err := GetTokenMetadata("p")
	if err != nil {
		t.Fatalf("GetTokenMetadata: %v", err)
	}
	if !meta.CreatedAt.Equal(created) {
		t.Errorf("expected CreatedAt %v, got %v", created, meta.CreatedAt)
	}
}

func TestStoreToken_Empty(t *testing.T) {
	useMockKeyring(t)
	if err := StoreToken("p", TokenMetadata{}); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestDeleteToken(t *testing.T) {
	useMockKeyring(t)

	_ = StoreToken("p", TokenMetadata{Token: "x"})
	if err := DeleteToken("p"); err != nil {
		t.Fatalf("DeleteToken: %v", err)
	}
	if err := DeleteToken("p"); err != nil {
		t.Errorf("deleting a missing token should not fail: %v", err)
	}
	if _, err := GetTokenMetadata("p"); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken after delete, got %v", err)
	}
}

func TestResolveToken(t *testing.T) {
	useMockKeyring(t)
	_ = StoreToken("default", TokenMetadata{Token: "from-keyring"})

	tests := []struct {
		name    string
		env     map[string]string
		profile *config.Profile
		want    string
		wantErr bool
	}{
		{name: "keyring", profile: &config.Profile{}, want: "from-keyring"},
		{name: "explicit keyring source", profile: &config.Profile{TokenSource: "keyring"}, want: "from-keyring"},
		{name: "env override wins", env: map[string]string{EnvVarName: "from-env"}, profile: &config.Profile{TokenSource: "literal"}, want: "from-env"},
		{name: "env source", env: map[string]string{"WORK_TOKEN": "from-work"}, profile: &config.Profile{TokenSource: "env:WORK_TOKEN"}, want: "from-work"},
		{name: "env source unset", profile: &config.Profile{TokenSource: "env:UNSET_NOVEM_VAR"}, wantErr: true},
		{name: "literal", profile: &config.Profile{TokenSource: "nbt-literal"}, want: "nbt-literal"},
		{name: "nil profile", profile: nil, want: "from-keyring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvVarName, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := ResolveToken("default", tt.profile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveToken_NoKeyring(t *testing.T) {
	useNoKeyring(t)
	t.Setenv(EnvVarName, "")

	if _, err := ResolveToken("default", &config.Profile{}); err == nil {
		t.Error("expected error when keyring is unavailable and no env token is set")
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	if !shouldForceFileBackend("linux", "") {
		t.Error("expected file backend on headless linux")
	}
	if shouldForceFileBackend("linux", "unix:path=/run/user/1000/bus") {
		t.Error("expected system backend when dbus is available")
	}
	if shouldForceFileBackend("darwin", "") {
		t.Error("expected system backend on darwin")
	}
}
