package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// IntNSource is the randomness a shuffle needs. *rand.Rand satisfies it.
type IntNSource interface {
	IntN(n int) int
}

// NewDeck returns the 52 cards in suit-major order, all face down
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := Ace; rank <= King; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle permutes deck in place with a Fisher-Yates pass
func Shuffle(deck []Card, rng IntNSource) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// NewRand returns a deterministic generator for seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// ShuffledDeck returns a fresh deck shuffled by the generator for seed
func ShuffledDeck(seed int64) []Card {
	deck := NewDeck()
	Shuffle(deck, NewRand(seed))
	return deck
}

// NewSeed returns a crypto-random non-negative seed
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Int64()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
