package service

import (
	"context"
	"fmt"

	"shortlink/internal/base62"
)

// Counter hands out fresh, strictly increasing integers. The storage layer
// guarantees linearizability, which is what makes the generated codes
// collision-free without any probing.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

// CodeGenerator turns counter values into short codes. Encoding is a pure
// function of the counter value, so uniqueness reduces entirely to counter
// uniqueness.
type CodeGenerator struct {
	counter Counter
}

func NewCodeGenerator(counter Counter) *CodeGenerator {
	return &CodeGenerator{
		counter: counter,
	}
}

// Allocate obtains the next counter value and encodes it as base-62.
func (g *CodeGenerator) Allocate(ctx context.Context) (string, error) {
	const op = "service.CodeGenerator.Allocate"

	n, err := g.counter.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: failed to allocate code: %w", op, err)
	}

	return base62.Encode(n), nil
}
