package repository

// Repositories agrupa los repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Products       ProductRepository
	StockIns       StockInRepository
	StockOuts      StockOutRepository
	Adjustments    StockAdjustmentRepository
	LedgerEntries  LedgerEntryRepository
	Requisitions   RequisitionRepository
	PurchaseOrders PurchaseOrderRepository
}
