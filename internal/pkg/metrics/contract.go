package metrics

// OffersCounter число живых офферов в хранилище рассылки.
type OffersCounter interface {
	OffersCount() int
}
