package memstore

import (
	"context"
	"sync"
)

// TxManager выполняет транзакции строго по одной
// При ошибке журнал и типы откатываются к состоянию до транзакции
type TxManager struct {
	store *Store
	mu    sync.Mutex

	// Fail если задан, DoSerializable возвращает его, не вызывая fn
	Fail error
}

// NewTxManager менеджер транзакций поверх хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Fail != nil {
		return m.Fail
	}
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}
