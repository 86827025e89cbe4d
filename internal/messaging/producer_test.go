package messaging

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestNewProducer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "changes")
	defer p.Close()

	if _, ok := p.writer.Balancer.(*kafka.Hash); !ok {
		t.Fatalf("expected hash balancer, got %T", p.writer.Balancer)
	}
	if p.writer.RequiredAcks != kafka.RequireOne {
		t.Errorf("expected RequireOne, got %v", p.writer.RequiredAcks)
	}

	t.Run("same key keeps its partition", func(t *testing.T) {
		partitions := []int{0, 1, 2, 3, 4, 5, 6, 7}
		first := p.writer.Balancer.Balance(kafka.Message{Key: []byte("orders:42")}, partitions...)
		for range 10 {
			if got := p.writer.Balancer.Balance(kafka.Message{Key: []byte("orders:42")}, partitions...); got != first {
				t.Fatalf("expected partition %d, got %d", first, got)
			}
		}
	})
}
