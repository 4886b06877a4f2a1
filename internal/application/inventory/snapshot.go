package inventory

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Snapshot vista de solo lectura que el motor del mayor consume en cada cálculo.
type Snapshot struct {
	Products     []entity.Product
	Locations    []entity.Location
	Transactions []entity.Transaction
}

// ProductByID busca en la instantánea.
func (s *Snapshot) ProductByID(id string) *entity.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

// SnapshotLoader carga productos, ubicaciones y transacciones en paralelo.
type SnapshotLoader struct {
	products     repository.ProductRepository
	locations    repository.LocationRepository
	transactions repository.TransactionRepository
}

// NewSnapshotLoader construye el cargador.
func NewSnapshotLoader(
	products repository.ProductRepository,
	locations repository.LocationRepository,
	transactions repository.TransactionRepository,
) *SnapshotLoader {
	return &SnapshotLoader{products: products, locations: locations, transactions: transactions}
}

// Load lee las tres colecciones completas; falla si cualquiera falla.
func (l *SnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := l.products.List(gctx, repository.ProductFilter{})
		if err != nil {
			return err
		}
		snap.Products = make([]entity.Product, 0, len(list))
		for _, p := range list {
			snap.Products = append(snap.Products, *p)
		}
		return nil
	})
	g.Go(func() error {
		list, err := l.locations.List(gctx)
		if err != nil {
			return err
		}
		snap.Locations = make([]entity.Location, 0, len(list))
		for _, loc := range list {
			snap.Locations = append(snap.Locations, *loc)
		}
		return nil
	})
	g.Go(func() error {
		txs, err := l.transactions.ListAll(gctx)
		if err != nil {
			return err
		}
		snap.Transactions = txs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
