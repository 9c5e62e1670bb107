package memory

import (
	"context"

	"cropline/internal/app/ports"
)

type OperatorCredentialRepo struct {
	store *Store
}

func NewOperatorCredentialRepo(store *Store) OperatorCredentialRepo {
	return OperatorCredentialRepo{store: store}
}

func (r OperatorCredentialRepo) Create(ctx context.Context, credential ports.OperatorCredentialRecord) error {
	defer r.store.lockWrite(ctx)()
	if _, exists := r.store.credentials[credential.OperatorID]; exists {
		return ports.ErrConflict
	}
	r.store.credentials[credential.OperatorID] = credential
	return nil
}

func (r OperatorCredentialRepo) GetByOperatorID(ctx context.Context, operatorID string) (ports.OperatorCredentialRecord, error) {
	defer r.store.lockRead(ctx)()
	credential, ok := r.store.credentials[operatorID]
	if !ok {
		return ports.OperatorCredentialRecord{}, ports.ErrNotFound
	}
	return credential, nil
}
