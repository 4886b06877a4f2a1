// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa con DB_DRIVER=memory para correr sin PostgreSQL y como backend de los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu        sync.RWMutex
	products  map[string]entity.Product
	locations map[string]entity.Location
	txs       map[string]entity.Transaction
	users     map[string]entity.User
	seq       int64

	txMu sync.Mutex // serializa TxRunner.Run
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		locations: make(map[string]entity.Location),
		txs:       make(map[string]entity.Transaction),
		users:     make(map[string]entity.User),
	}
}

// Products repo de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Locations repo de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// Transactions repo del log de transacciones.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

// Users repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner runner atómico sobre el store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

type snapshot struct {
	products  map[string]entity.Product
	locations map[string]entity.Location
	txs       map[string]entity.Transaction
	seq       int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		products:  make(map[string]entity.Product, len(s.products)),
		locations: make(map[string]entity.Location, len(s.locations)),
		txs:       make(map[string]entity.Transaction, len(s.txs)),
		seq:       s.seq,
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.locations {
		snap.locations[k] = v
	}
	for k, v := range s.txs {
		snap.txs[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.locations = snap.locations
	s.txs = snap.txs
	s.seq = snap.seq
}

// resolveLocationName requiere s.mu tomado.
func (s *Store) resolveLocationName(t entity.Transaction) entity.Transaction {
	t.LocationName = ""
	if l, ok := s.locations[t.LocationID]; ok {
		t.LocationName = l.Name
	}
	return t
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner restaura la instantánea previa si fn falla. Las escrituras concurrentes fuera
// de Run durante su ejecución se pierden en el rollback; aceptable para el driver de desarrollo.
type TxRunner struct {
	s *Store
}

// Run ejecuta fn de forma atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	err := fn(repository.TxRepos{
		Products:     r.s.Products(),
		Locations:    r.s.Locations(),
		Transactions: r.s.Transactions(),
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) codeTaken(code, exceptID string) bool {
	for _, p := range r.s.products {
		if p.Code == code && p.ID != exceptID {
			return true
		}
	}
	return false
}

// Create código duplicado -> domain.ErrDuplicate.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok || r.codeTaken(product.Code, "") {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.codeTaken(product.Code, product.ID) {
		return domain.ErrDuplicate
	}
	cur.Code = product.Code
	cur.Name = product.Name
	cur.LowStockThreshold = product.LowStockThreshold
	cur.UpdatedAt = product.UpdatedAt
	r.s.products[product.ID] = cur
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if search != "" && !strings.Contains(strings.ToLower(p.Code), search) && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		p := p
		list = append(list, &p)
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Code < list[j].Code
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo ubicaciones en memoria.
type LocationRepo struct {
	s *Store
}

func (r *LocationRepo) Create(_ context.Context, location *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := domaininv.LocationKey(location.Name)
	for _, l := range r.s.locations {
		if l.ID == location.ID || domaininv.LocationKey(l.Name) == key {
			return domain.ErrDuplicate
		}
	}
	r.s.locations[location.ID] = *location
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) GetByName(_ context.Context, name string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	key := domaininv.LocationKey(name)
	for _, l := range r.s.locations {
		if domaininv.LocationKey(l.Name) == key {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	r.s.mu.RLock()
	list := make([]*entity.Location, 0, len(r.s.locations))
	for _, l := range r.s.locations {
		l := l
		list = append(list, &l)
	}
	r.s.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo log de transacciones en memoria.
type TransactionRepo struct {
	s *Store
}

// Create asigna Seq incremental.
func (r *TransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.txs[tx.ID]; ok {
		return domain.ErrDuplicate
	}
	if tx.ReversalOf != "" {
		for _, t := range r.s.txs {
			if t.ReversalOf == tx.ReversalOf {
				return domain.ErrConflict
			}
		}
	}
	r.s.seq++
	tx.Seq = r.s.seq
	stored := *tx
	stored.LocationName = ""
	r.s.txs[tx.ID] = stored
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.txs[id]
	if !ok {
		return nil, nil
	}
	t = r.s.resolveLocationName(t)
	return &t, nil
}

// GetReversalOf devuelve la reversión de origID, si existe.
func (r *TransactionRepo) GetReversalOf(_ context.Context, origID string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.txs {
		if t.ReversalOf == origID {
			t = r.s.resolveLocationName(t)
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.txs[tx.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.ProductID = tx.ProductID
	cur.LocationID = tx.LocationID
	cur.Type = tx.Type
	cur.Quantity = tx.Quantity
	cur.Party = tx.Party
	r.s.txs[tx.ID] = cur
	return nil
}

func (r *TransactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.txs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.txs, id)
	return nil
}

func (r *TransactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	list := make([]*entity.Transaction, 0)
	for _, t := range r.s.txs {
		if filter.ProductID != "" && t.ProductID != filter.ProductID {
			continue
		}
		if search != "" {
			p, ok := r.s.products[t.ProductID]
			if !ok || !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
		}
		t = r.s.resolveLocationName(t)
		list = append(list, &t)
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Seq > b.Seq
	})
	return paginate(list, filter.Limit, filter.Offset), nil
}

func (r *TransactionRepo) ListAll(_ context.Context) ([]entity.Transaction, error) {
	r.s.mu.RLock()
	list := make([]entity.Transaction, 0, len(r.s.txs))
	for _, t := range r.s.txs {
		list = append(list, r.s.resolveLocationName(t))
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].Seq < list[j].Seq
	})
	return list, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	stored := *user
	stored.Email = strings.ToLower(stored.Email)
	r.s.users[user.ID] = stored
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.s.users[userID] = u
	return nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
