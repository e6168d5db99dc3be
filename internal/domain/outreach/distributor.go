package outreach

import (
	"customer_outreach_bot/internal/domain/customer"
)

// Distribute partitions recipients across n senders so that partition i
// receives every recipient whose 0-based position in the input is congruent
// to i modulo n. The interleaving spreads load evenly regardless of batch
// size while preserving relative order within each partition. n must be
// positive; configuration validation guards the pool size.
func Distribute(recipients []*customer.Customer, n int) [][]*customer.Customer {
	batches := make([][]*customer.Customer, n)
	for i := range batches {
		batches[i] = make([]*customer.Customer, 0, (len(recipients)+n-1)/n)
	}
	for pos, c := range recipients {
		batches[pos%n] = append(batches[pos%n], c)
	}
	return batches
}
