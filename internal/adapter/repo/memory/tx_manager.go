package memory

import "context"

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx serializes the whole function under the store lock. There is no
// rollback: memory mode trades that for zero setup.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
