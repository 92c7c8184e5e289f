package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"app-marketplace/internal/core/domain"
	"app-marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is the shared in-memory database. Wallet row locks are emulated
// with one channel per user, acquired by GetByUserIDForUpdate and released
// when the transaction commits or rolls back, so the double-spend behavior
// of SELECT ... FOR UPDATE survives the swap to memory.
type memStore struct {
	mu        sync.Mutex
	wallets   map[uuid.UUID]*domain.Wallet // by wallet ID
	byUser    map[uuid.UUID]uuid.UUID      // user ID -> wallet ID
	apps      map[uuid.UUID]*domain.App
	purchases []*domain.Purchase
	locks     map[uuid.UUID]chan struct{} // user ID -> row lock
}

func newMemStore() *memStore {
	return &memStore{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		byUser:  make(map[uuid.UUID]uuid.UUID),
		apps:    make(map[uuid.UUID]*domain.App),
		locks:   make(map[uuid.UUID]chan struct{}),
	}
}

func (s *memStore) lockChan(userID uuid.UUID) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.locks[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[userID] = ch
	}
	return ch
}

// --- Transactor ---

type inMemoryTransactor struct {
	store *memStore
}

func newInMemoryTransactor(store *memStore) *inMemoryTransactor {
	return &inMemoryTransactor{store: store}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{store: t.store}, nil
}

// memTx implements pgx.Tx over the in-memory store. It tracks acquired row
// locks and releases them exactly once, on Commit or on the first Rollback.
type memTx struct {
	store    *memStore
	mu       sync.Mutex
	held     []chan struct{}
	finished bool
}

func (t *memTx) lockWallet(ctx context.Context, userID uuid.UUID) error {
	ch := t.store.lockChan(userID)
	select {
	case ch <- struct{}{}:
		t.mu.Lock()
		t.held = append(t.held, ch)
		t.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *memTx) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.finished = true
	for _, ch := range t.held {
		<-ch
	}
	t.held = nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	store *memStore
}

func newInMemoryWalletRepo(store *memStore) *inMemoryWalletRepo {
	return &inMemoryWalletRepo{store: store}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.byUser[w.UserID]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "wallets_user_id_key"}
	}
	cp := *w
	r.store.wallets[w.ID] = &cp
	r.store.byUser[w.UserID] = w.ID
	return nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *r.store.wallets[id]
	return &cp, nil
}

func (r *inMemoryWalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	mt, ok := tx.(*memTx)
	if !ok {
		return nil, fmt.Errorf("unexpected tx type %T", tx)
	}
	if err := mt.lockWallet(ctx, userID); err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	w, ok := r.store.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet %s not found", walletID)
	}
	w.Balance = newBalance
	return nil
}

func (r *inMemoryWalletRepo) Credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	id, ok := r.store.byUser[userID]
	if !ok {
		return fmt.Errorf("wallet for user %s not found", userID)
	}
	r.store.wallets[id].Balance += amount
	return nil
}

// --- In-Memory App Repo ---

type inMemoryAppRepo struct {
	store *memStore
}

func newInMemoryAppRepo(store *memStore) *inMemoryAppRepo {
	return &inMemoryAppRepo{store: store}
}

func (r *inMemoryAppRepo) Create(ctx context.Context, a *domain.App) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *a
	r.store.apps[a.ID] = &cp
	return nil
}

func (r *inMemoryAppRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.App, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// Delete removes the listing and nulls the reference on existing purchase
// records, mirroring the ON DELETE SET NULL foreign key.
func (r *inMemoryAppRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.apps[id]; !ok {
		return fmt.Errorf("app %s not found", id)
	}
	delete(r.store.apps, id)
	for _, p := range r.store.purchases {
		if p.AppID != nil && *p.AppID == id {
			p.AppID = nil
		}
	}
	return nil
}

func (r *inMemoryAppRepo) ListVerified(ctx context.Context, params ports.CatalogListParams) ([]domain.App, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]domain.App, 0)
	for _, a := range r.store.apps {
		if !a.Verified || a.UserID == params.ExcludeUserID {
			continue
		}
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(a.Title), needle) &&
				!strings.Contains(strings.ToLower(a.Description), needle) {
				continue
			}
		}
		matched = append(matched, *a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (params.Page - 1) * params.PageSize
	if start >= len(matched) {
		return []domain.App{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// --- In-Memory Purchase Repo ---

type inMemoryPurchaseRepo struct {
	store *memStore
}

func newInMemoryPurchaseRepo(store *memStore) *inMemoryPurchaseRepo {
	return &inMemoryPurchaseRepo{store: store}
}

func (r *inMemoryPurchaseRepo) Create(ctx context.Context, tx pgx.Tx, p *domain.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	cp.App = nil
	r.store.purchases = append(r.store.purchases, &cp)
	return nil
}

func (r *inMemoryPurchaseRepo) GetByID(ctx context.Context, buyerID, id uuid.UUID) (*domain.Purchase, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.purchases {
		if p.ID == id && p.BuyerID != nil && *p.BuyerID == buyerID {
			return r.withApp(p), nil
		}
	}
	return nil, nil
}

func (r *inMemoryPurchaseRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page, pageSize int) ([]domain.Purchase, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]*domain.Purchase, 0)
	for _, p := range r.store.purchases {
		if p.BuyerID != nil && *p.BuyerID == buyerID {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() < matched[j].ID.String()
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Purchase{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]domain.Purchase, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, *r.withApp(p))
	}
	return out, total, nil
}

// withApp joins the current listing snapshot, nil when deleted. Caller holds
// store.mu.
func (r *inMemoryPurchaseRepo) withApp(p *domain.Purchase) *domain.Purchase {
	cp := *p
	if cp.AppID != nil {
		if a, ok := r.store.apps[*cp.AppID]; ok {
			app := *a
			cp.App = &app
		}
	}
	return &cp
}
