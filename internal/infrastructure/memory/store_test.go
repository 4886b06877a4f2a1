package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

var t0 = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func TestProductRepo_CodigoUnicoYBusqueda(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Products()

	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "1", Code: "P001", Name: "Tornillo"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "2", Code: "P002", Name: "Arandela"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Product{ID: "3", Code: "P001", Name: "Otro"}), domain.ErrDuplicate)

	all, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Arandela", all[0].Name, "ordenado por nombre")

	found, err := repo.List(ctx, repository.ProductFilter{Search: "torn"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "P001", found[0].Code)

	p, err := repo.GetByCode(ctx, "P404")
	require.NoError(t, err)
	assert.Nil(t, p, "no encontrado es nil, nil")

	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: "2", Code: "P001"}), domain.ErrDuplicate)
	assert.ErrorIs(t, repo.Delete(ctx, "404"), domain.ErrNotFound)
}

func TestLocationRepo_NombreSinMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Locations()
	require.NoError(t, repo.Create(ctx, &entity.Location{ID: "l1", Name: "Godown"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Location{ID: "l2", Name: "GODOWN"}), domain.ErrDuplicate)

	l, err := repo.GetByName(ctx, "godown")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "l1", l.ID)

	require.NoError(t, repo.Create(ctx, &entity.Location{ID: "l3", Name: "Straße"}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Location{ID: "l4", Name: "STRASSE"}), domain.ErrDuplicate)
	l, err = repo.GetByName(ctx, "strasse")
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, "l3", l.ID)
}

func TestTransactionRepo_UnaReversionPorOriginal(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Transactions()
	orig := &entity.Transaction{ID: "o", ProductID: "p1", LocationID: "l1", Type: entity.TransactionInward, Quantity: decimal.NewFromInt(5), CreatedAt: t0}
	require.NoError(t, repo.Create(ctx, orig))

	none, err := repo.GetReversalOf(ctx, "o")
	require.NoError(t, err)
	assert.Nil(t, none)

	rev := &entity.Transaction{ID: "r1", ProductID: "p1", LocationID: "l1", Type: entity.TransactionOutward, Quantity: decimal.NewFromInt(5), CreatedAt: t0, ReversalOf: "o"}
	require.NoError(t, repo.Create(ctx, rev))
	again := &entity.Transaction{ID: "r2", ProductID: "p1", LocationID: "l1", Type: entity.TransactionOutward, Quantity: decimal.NewFromInt(5), CreatedAt: t0, ReversalOf: "o"}
	assert.ErrorIs(t, repo.Create(ctx, again), domain.ErrConflict)

	found, err := repo.GetReversalOf(ctx, "o")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "r1", found.ID)
}

func TestTransactionRepo_SeqYOrden(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: "l1", Name: "Office"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Code: "P001", Name: "Tornillo"}))

	repo := s.Transactions()
	a := &entity.Transaction{ID: "a", ProductID: "p1", LocationID: "l1", Type: entity.TransactionInward, Quantity: decimal.NewFromInt(5), CreatedAt: t0}
	b := &entity.Transaction{ID: "b", ProductID: "p1", LocationID: "l1", Type: entity.TransactionOutward, Quantity: decimal.NewFromInt(2), CreatedAt: t0}
	c := &entity.Transaction{ID: "c", ProductID: "p1", LocationID: "borrada", Type: entity.TransactionInward, Quantity: decimal.NewFromInt(1), CreatedAt: t0.Add(-time.Hour)}
	for _, tx := range []*entity.Transaction{a, b, c} {
		require.NoError(t, repo.Create(ctx, tx))
	}
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, int64(3), c.Seq)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Empty(t, all[0].LocationName, "ubicación inexistente queda sin nombre")
	assert.Equal(t, "Office", all[1].LocationName)

	newest, err := repo.List(ctx, repository.TransactionFilter{Search: "TORN", Limit: 2})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "b", newest[0].ID)
	assert.Equal(t, "a", newest[1].ID)
}

func TestTxRunner_RestauraAnteError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("falla")

	err := s.TxRunner().Run(ctx, func(repos repository.TxRepos) error {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", Code: "P001", Name: "Tornillo"}))
		require.NoError(t, repos.Transactions.Create(ctx, &entity.Transaction{ID: "t1", ProductID: "p1", Type: entity.TransactionInward}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Nil(t, p)
	all, _ := s.Transactions().ListAll(ctx)
	assert.Empty(t, all)

	require.NoError(t, s.TxRunner().Run(ctx, func(repos repository.TxRepos) error {
		return repos.Products.Create(ctx, &entity.Product{ID: "p1", Code: "P001", Name: "Tornillo"})
	}))
	p, _ = s.Products().GetByID(ctx, "p1")
	assert.NotNil(t, p)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Users()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "u1", Email: "Admin@Example.com", Role: entity.RoleAdmin}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: "u2", Email: "admin@example.com"}), domain.ErrEmailAlreadyExists)

	u, err := repo.FindByEmail(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NoError(t, repo.UpdatePassword(ctx, "u1", "nuevo-hash"))
	u, _ = repo.GetByID(ctx, "u1")
	assert.Equal(t, "nuevo-hash", u.PasswordHash)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "x", "h"), domain.ErrUserNotFound)
}
