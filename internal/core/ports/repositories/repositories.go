package repositories

// LedgerStore is everything the services need from storage: the read side plus a way to run
// atomic write units.
type LedgerStore interface {
	TransactionManager
	PartyReader
	ProductReader
	BillReader
	SettlementReader
}
