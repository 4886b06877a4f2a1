package repository

import "context"

// TxRepos repositorios ligados a una misma transacción de almacenamiento.
type TxRepos struct {
	Products     ProductRepository
	Locations    LocationRepository
	Transactions TransactionRepository
}

// TxRunner ejecuta fn de forma atómica: si fn devuelve error no queda ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
