package groups

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var inviteCodePattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestGenerateInviteCodeFormat(t *testing.T) {
	exists := func(ctx context.Context, code string) (bool, error) { return false, nil }

	for i := 0; i < 50; i++ {
		code, err := GenerateInviteCode(context.Background(), exists)
		if err != nil {
			t.Fatalf("GenerateInviteCode() unexpected error: %v", err)
		}
		if !inviteCodePattern.MatchString(code) {
			t.Fatalf("GenerateInviteCode() = %q, want 8 uppercase hex chars", code)
		}
	}
}

func TestGenerateInviteCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return calls < 3, nil
	}

	code, err := GenerateInviteCode(context.Background(), exists)
	if err != nil {
		t.Fatalf("GenerateInviteCode() unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("exists probed %d times, want 3", calls)
	}
	if !inviteCodePattern.MatchString(code) {
		t.Errorf("GenerateInviteCode() = %q, want 8 uppercase hex chars", code)
	}
}

func TestGenerateInviteCodeExhaustion(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := GenerateInviteCode(context.Background(), exists)
	if !errors.Is(err, ErrInviteCodeExhausted) {
		t.Fatalf("GenerateInviteCode() error = %v, want ErrInviteCodeExhausted", err)
	}
	if calls != 10 {
		t.Errorf("exists probed %d times, want 10", calls)
	}
}

func TestGenerateInviteCodePropagatesStoreError(t *testing.T) {
	probeErr := errors.New("connection reset")
	exists := func(ctx context.Context, code string) (bool, error) {
		return false, probeErr
	}

	_, err := GenerateInviteCode(context.Background(), exists)
	if !errors.Is(err, probeErr) {
		t.Fatalf("GenerateInviteCode() error = %v, want wrapped %v", err, probeErr)
	}
}
