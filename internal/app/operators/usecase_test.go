package operators

import (
	"context"
	"strings"
	"testing"
	"time"

	"cropline/internal/app/ports"
)

func TestRegisterUseCase_CreatesCredential(t *testing.T) {
	creds := &fakeCredentialRepo{}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1770000000, 0).UTC() },
	}

	resp, err := uc.Execute(context.Background(), RegisterRequest{Name: "Priya Kulkarni"})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if resp.OperatorID == "" || resp.OperatorKey == "" || resp.IssuedAt == "" {
		t.Fatalf("expected non-empty register response: %+v", resp)
	}
	if !strings.HasPrefix(resp.OperatorID, "op_") {
		t.Fatalf("unexpected operator id %q", resp.OperatorID)
	}
	if creds.last.OperatorID != resp.OperatorID {
		t.Fatalf("credential operator mismatch: %s != %s", creds.last.OperatorID, resp.OperatorID)
	}
	if creds.last.Name != "Priya Kulkarni" {
		t.Fatalf("operator name not stored: %q", creds.last.Name)
	}
	if len(creds.last.KeySalt) == 0 || len(creds.last.KeyHash) == 0 {
		t.Fatalf("expected credential salt/hash stored")
	}
	if strings.Contains(string(creds.last.KeyHash), resp.OperatorKey) {
		t.Fatalf("raw key must not be stored")
	}
}

func TestRegisterUseCase_RequiresName(t *testing.T) {
	uc := RegisterUseCase{Credentials: &fakeCredentialRepo{}, TxManager: fakeTxManager{}}

	if _, err := uc.Execute(context.Background(), RegisterRequest{Name: "   "}); err != ErrInvalidRequest {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestRegisterUseCase_RetriesOnIDConflict(t *testing.T) {
	creds := &fakeCredentialRepo{conflictTimes: 2}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1770000000, 0).UTC() },
	}

	resp, err := uc.Execute(context.Background(), RegisterRequest{Name: "Priya Kulkarni"})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if creds.creates != 3 {
		t.Fatalf("expected 3 create attempts, got %d", creds.creates)
	}
	if resp.OperatorID == "" {
		t.Fatalf("expected an id after retry")
	}
}

func TestRegisterUseCase_GivesUpAfterRepeatedConflicts(t *testing.T) {
	creds := &fakeCredentialRepo{conflictTimes: 10}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1770000000, 0).UTC() },
	}

	if _, err := uc.Execute(context.Background(), RegisterRequest{Name: "Priya Kulkarni"}); err != ports.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if creds.creates != 3 {
		t.Fatalf("expected 3 attempts before giving up, got %d", creds.creates)
	}
}

func TestVerifyUseCase_AcceptsValidCredentials(t *testing.T) {
	salt := []byte("salt")
	key := "operator-secret"
	repo := &fakeCredentialRepo{
		getResult: ports.OperatorCredentialRecord{
			OperatorID: "op_1",
			KeySalt:    salt,
			KeyHash:    credentialHash(salt, key),
			Status:     CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	if err := uc.Execute(context.Background(), VerifyRequest{OperatorID: "op_1", OperatorKey: key}); err != nil {
		t.Fatalf("verify error: %v", err)
	}
}

func TestVerifyUseCase_RejectsInvalidCredentials(t *testing.T) {
	salt := []byte("salt")
	repo := &fakeCredentialRepo{
		getResult: ports.OperatorCredentialRecord{
			OperatorID: "op_1",
			KeySalt:    salt,
			KeyHash:    credentialHash(salt, "correct"),
			Status:     CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{OperatorID: "op_1", OperatorKey: "wrong"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyUseCase_RejectsUnknownOperator(t *testing.T) {
	repo := &fakeCredentialRepo{getErr: ports.ErrNotFound}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{OperatorID: "op_missing", OperatorKey: "whatever"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyUseCase_RejectsInactiveCredential(t *testing.T) {
	salt := []byte("salt")
	key := "operator-secret"
	repo := &fakeCredentialRepo{
		getResult: ports.OperatorCredentialRecord{
			OperatorID: "op_1",
			KeySalt:    salt,
			KeyHash:    credentialHash(salt, key),
			Status:     "revoked",
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{OperatorID: "op_1", OperatorKey: key})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

type fakeCredentialRepo struct {
	last          ports.OperatorCredentialRecord
	creates       int
	conflictTimes int
	createErr     error
	getResult     ports.OperatorCredentialRecord
	getErr        error
}

func (f *fakeCredentialRepo) Create(_ context.Context, credential ports.OperatorCredentialRecord) error {
	f.creates++
	if f.conflictTimes > 0 {
		f.conflictTimes--
		return ports.ErrConflict
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.last = credential
	return nil
}

func (f *fakeCredentialRepo) GetByOperatorID(_ context.Context, _ string) (ports.OperatorCredentialRecord, error) {
	if f.getErr != nil {
		return ports.OperatorCredentialRecord{}, f.getErr
	}
	return f.getResult, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
