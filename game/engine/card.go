package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit identifies one of the four French suits
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists the suits in foundation order. Foundation i holds Suits[i].
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

var suitSymbols = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

// Index returns the foundation index of the suit, or -1 for an unknown suit
func (s Suit) Index() int {
	for i, suit := range Suits {
		if suit == s {
			return i
		}
	}
	return -1
}

// IsRed reports whether the suit is hearts or diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Symbol returns the unicode pip for the suit
func (s Suit) Symbol() string {
	if sym, ok := suitSymbols[s]; ok {
		return sym
	}
	return "?"
}

// ParseSuit accepts a suit name, its first letter, or its symbol
func ParseSuit(value string) (Suit, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, suit := range Suits {
		if v == string(suit) || v == string(suit)[:1] || v == suit.Symbol() {
			return suit, nil
		}
	}
	return "", fmt.Errorf("unknown suit %q", value)
}

// Rank is the zero-based card rank: Ace is 0, King is 12
type Rank int

const (
	Ace   Rank = 0
	Jack  Rank = 10
	Queen Rank = 11
	King  Rank = 12
)

var rankLabels = [RanksPerSuit]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Valid reports whether r is within Ace..King
func (r Rank) Valid() bool {
	return r >= Ace && r <= King
}

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankLabels[r]
}

// ParseRank accepts the printed label (A, 2..10, J, Q, K)
func ParseRank(value string) (Rank, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	for i, label := range rankLabels {
		if v == label {
			return Rank(i), nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && n == 1 {
		return Ace, nil
	}
	return 0, fmt.Errorf("unknown rank %q", value)
}

// Card is a playing card. Cards are values; identity is (Suit, Rank).
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"face_up"`
}

// IsRed reports the card color
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Same reports whether c and other are the same physical card, ignoring orientation
func (c Card) Same(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}
