package outreach

import (
	"fmt"
	"testing"

	"customer_outreach_bot/internal/domain/customer"
)

func makeCustomers(n int) []*customer.Customer {
	out := make([]*customer.Customer, n)
	for i := range out {
		out[i] = &customer.Customer{ID: int64(i + 1), Email: fmt.Sprintf("user%d@example.com", i+1)}
	}
	return out
}

func TestDistributeBalance(t *testing.T) {
	tests := []struct {
		recipients int
		senders    int
	}{
		{recipients: 0, senders: 3},
		{recipients: 1, senders: 5},
		{recipients: 5, senders: 5},
		{recipients: 7, senders: 3},
		{recipients: 100, senders: 5},
		{recipients: 12, senders: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_recipients_%d_senders", tt.recipients, tt.senders), func(t *testing.T) {
			batches := Distribute(makeCustomers(tt.recipients), tt.senders)

			if len(batches) != tt.senders {
				t.Fatalf("got %d batches, want %d", len(batches), tt.senders)
			}

			// Every partition size is floor(M/N) or ceil(M/N).
			minSize := tt.recipients / tt.senders
			maxSize := minSize
			if tt.recipients%tt.senders != 0 {
				maxSize++
			}
			total := 0
			for i, b := range batches {
				if len(b) < minSize || len(b) > maxSize {
					t.Errorf("batch %d has %d recipients, want %d..%d", i, len(b), minSize, maxSize)
				}
				total += len(b)
			}
			if total != tt.recipients {
				t.Errorf("batches hold %d recipients in total, want %d", total, tt.recipients)
			}
		})
	}
}

func TestDistributeRoundRobinOrder(t *testing.T) {
	customers := makeCustomers(7)
	batches := Distribute(customers, 3)

	// Reading the batches back in round-robin order reconstructs the input.
	var reconstructed []*customer.Customer
	for pos := 0; pos < len(customers); pos++ {
		reconstructed = append(reconstructed, batches[pos%3][pos/3])
	}
	for i, c := range reconstructed {
		if c.ID != customers[i].ID {
			t.Fatalf("position %d: got customer %d, want %d", i, c.ID, customers[i].ID)
		}
	}
}

func TestDistributePreservesRelativeOrder(t *testing.T) {
	batches := Distribute(makeCustomers(10), 4)
	for i, b := range batches {
		for j := 1; j < len(b); j++ {
			if b[j].ID <= b[j-1].ID {
				t.Errorf("batch %d is not in ascending input order: %d after %d", i, b[j].ID, b[j-1].ID)
			}
		}
	}
}
