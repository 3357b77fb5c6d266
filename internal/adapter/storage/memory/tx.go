package memory

import (
	"context"
	"errors"
	"sync"

	"globalupi/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrForeignTx is returned when a repository receives a pgx.Tx that was
// not started by this store's Transactor.
var ErrForeignTx = errors.New("memory: transaction not started by memory transactor")

// Tx is a staged unit of work. Only Commit and Rollback are implemented;
// the embedded pgx.Tx is nil and any other method panics.
type Tx struct {
	pgx.Tx

	store *Store

	mu       sync.Mutex
	held     map[uuid.UUID]chan struct{}
	balances map[uuid.UUID]domain.Balances
	txns     []txnRow
	closed   bool
}

// Transactor implements ports.DBTransactor for the memory store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a new Transactor.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin starts a new staged transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:    t.store,
		held:     make(map[uuid.UUID]chan struct{}),
		balances: make(map[uuid.UUID]domain.Balances),
	}, nil
}

// Commit publishes staged writes and releases row locks.
func (tx *Tx) Commit(ctx context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true

	s := tx.store
	s.mu.Lock()
	for id, b := range tx.balances {
		if row, ok := s.accounts[id]; ok {
			row.balances = b
		}
	}
	s.txns = append(s.txns, tx.txns...)
	s.mu.Unlock()

	tx.releaseLocked()
	return nil
}

// Rollback discards staged writes and releases row locks.
func (tx *Tx) Rollback(ctx context.Context) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.closed = true
	tx.balances = nil
	tx.txns = nil
	tx.releaseLocked()
	return nil
}

func (tx *Tx) releaseLocked() {
	for id, l := range tx.held {
		<-l
		delete(tx.held, id)
	}
}

// lock acquires the row lock for id unless this tx already holds it.
func (tx *Tx) lock(ctx context.Context, id uuid.UUID) error {
	tx.mu.Lock()
	if tx.closed {
		tx.mu.Unlock()
		return pgx.ErrTxClosed
	}
	if _, ok := tx.held[id]; ok {
		tx.mu.Unlock()
		return nil
	}
	tx.mu.Unlock()

	l := tx.store.rowLock(id)
	select {
	case l <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	tx.mu.Lock()
	tx.held[id] = l
	tx.mu.Unlock()
	return nil
}

// balancesOf returns the balances as seen inside this tx.
func (tx *Tx) balancesOf(id uuid.UUID) (domain.Balances, bool) {
	tx.mu.Lock()
	b, ok := tx.balances[id]
	tx.mu.Unlock()
	if ok {
		return b, true
	}

	s := tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.accounts[id]
	if !ok {
		return domain.Balances{}, false
	}
	return row.balances, true
}

func (tx *Tx) stageBalances(id uuid.UUID, b domain.Balances) {
	tx.mu.Lock()
	tx.balances[id] = b
	tx.mu.Unlock()
}

func (tx *Tx) stageTxn(row txnRow) {
	tx.mu.Lock()
	tx.txns = append(tx.txns, row)
	tx.mu.Unlock()
}

func asTx(tx pgx.Tx) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok || mt == nil {
		return nil, ErrForeignTx
	}
	return mt, nil
}
