package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  ProductRepository
	Orders    OrderRepository
	Usages    UsageRepository
	Movements StockMovementRepository
	Prices    PriceHistoryRepository
}
