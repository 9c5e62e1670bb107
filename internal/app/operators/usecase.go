package operators

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"cropline/internal/app/ports"
)

const (
	CredentialStatusActive = "active"
)

var (
	ErrInvalidRequest     = errors.New("invalid operator request")
	ErrInvalidCredentials = errors.New("invalid operator credentials")
)

type RegisterRequest struct {
	Name string `json:"name"`
}

type RegisterResponse struct {
	OperatorID  string `json:"operator_id"`
	OperatorKey string `json:"operator_key"`
	IssuedAt    string `json:"issued_at"`
}

type VerifyRequest struct {
	OperatorID  string
	OperatorKey string
}

type RegisterUseCase struct {
	Credentials ports.OperatorCredentialRepository
	TxManager   ports.TxManager
	Now         func() time.Time
}

type VerifyUseCase struct {
	Credentials ports.OperatorCredentialRepository
}

// Execute issues a fresh operator id and key. The key is returned exactly
// once; only its salted hash is stored.
func (u RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return RegisterResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	for i := 0; i < 3; i++ {
		operatorID, err := newOperatorID(now)
		if err != nil {
			return RegisterResponse{}, err
		}
		operatorKey, err := randomToken(32)
		if err != nil {
			return RegisterResponse{}, err
		}
		salt, err := randomBytes(16)
		if err != nil {
			return RegisterResponse{}, err
		}
		hash := credentialHash(salt, operatorKey)

		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.Credentials.Create(txCtx, ports.OperatorCredentialRecord{
				OperatorID: operatorID,
				Name:       name,
				KeySalt:    salt,
				KeyHash:    hash,
				Status:     CredentialStatusActive,
				CreatedAt:  now,
			})
		})
		if err == ports.ErrConflict {
			continue
		}
		if err != nil {
			return RegisterResponse{}, err
		}
		return RegisterResponse{
			OperatorID:  operatorID,
			OperatorKey: operatorKey,
			IssuedAt:    now.Format(time.RFC3339),
		}, nil
	}

	return RegisterResponse{}, ports.ErrConflict
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.OperatorID = strings.TrimSpace(req.OperatorID)
	req.OperatorKey = strings.TrimSpace(req.OperatorKey)
	if req.OperatorID == "" || req.OperatorKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetByOperatorID(ctx, req.OperatorID)
	if err != nil {
		if err == ports.ErrNotFound {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.OperatorKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func newOperatorID(now time.Time) (string, error) {
	randPart, err := randomToken(9)
	if err != nil {
		return "", err
	}
	return "op_" + now.Format("20060102") + "_" + randPart, nil
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
