package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/piprate/json-gold/ld"
)

// Strategy names a way of labelling blank nodes.
type Strategy string

const (
	// StrategyCounter labels blank nodes _:b0, _:b1, ... in minting order.
	// Labels restart for every Minter, so identical input converted by two
	// runs yields identical triples.
	StrategyCounter Strategy = "counter"
	// StrategyUUID labels blank nodes with random UUIDs, which stay unique
	// when outputs of separate runs are concatenated.
	StrategyUUID Strategy = "uuid"
)

// Minter creates blank nodes that are never reused.
type Minter interface {
	Mint() ld.BlankNode
}

// NewMinter returns a Minter for strategy. The empty strategy selects
// StrategyCounter.
func NewMinter(strategy Strategy) (Minter, error) {
	switch strategy {
	case "", StrategyCounter:
		return &CounterMinter{}, nil
	case StrategyUUID:
		return UUIDMinter{}, nil
	}
	return nil, fmt.Errorf("unknown blank node strategy %q", strategy)
}

// CounterMinter labels blank nodes with an increasing counter.
type CounterMinter struct {
	next uint64
}

// Mint returns the next blank node.
func (m *CounterMinter) Mint() ld.BlankNode {
	label := "_:b" + strconv.FormatUint(m.next, 10)
	m.next++
	return ld.NewBlankNode(label)
}

// UUIDMinter labels blank nodes with random UUIDs.
type UUIDMinter struct{}

// Mint returns a blank node with a fresh UUID label.
func (UUIDMinter) Mint() ld.BlankNode {
	return ld.NewBlankNode("_:b" + strings.ReplaceAll(uuid.NewString(), "-", ""))
}
