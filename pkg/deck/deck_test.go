package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()

	assert.Equal(t, 52, d.CardsLeft())
	assert.Equal(t, Card{Rank: 2, Suit: Spades}, *d.Cards[0])
	assert.Equal(t, Card{Rank: 14, Suit: Diamonds}, *d.Cards[51])

	// each (suit, rank) pair appears exactly once
	seen := make(map[Card]int)
	for _, card := range d.Cards {
		seen[*card]++
	}

	assert.Equal(t, 52, len(seen))
	for card, count := range seen {
		assert.Equal(t, 1, count, card.String())
	}
}

func TestDeck_Shuffle(t *testing.T) {
	d := New()
	d.SetSeed(1)
	d.Shuffle()

	hash := d.HashCode()

	d2 := New()
	d2.SetSeed(1)
	d2.Shuffle()
	assert.Equal(t, hash, d2.HashCode(), "same seed, same permutation")

	d3 := New()
	d3.SetSeed(2)
	d3.Shuffle()
	assert.NotEqual(t, hash, d3.HashCode())

	// still a full deck after shuffling
	seen := make(map[Card]bool)
	for _, card := range d.Cards {
		seen[*card] = true
	}
	assert.Equal(t, 52, len(seen))
}

// bottomGenerator always picks the lowest index
type bottomGenerator struct{}

func (bottomGenerator) Intn(n int) int {
	return 0
}

func TestDeck_SetGenerator(t *testing.T) {
	d := New()
	d.SetGenerator(bottomGenerator{})
	d.Shuffle()

	d2 := New()
	d2.SetGenerator(bottomGenerator{})
	d2.Shuffle()

	assert.Equal(t, d.HashCode(), d2.HashCode(), "same generator, same permutation")
	assert.NotEqual(t, New().HashCode(), d.HashCode())
}

func TestDeck_Draw(t *testing.T) {
	d := New()

	assert.True(t, d.CanDraw(52))
	assert.False(t, d.CanDraw(53))

	for i := 0; i < 52; i++ {
		card, err := d.Draw()
		assert.NoError(t, err)
		assert.NotNil(t, card)
	}

	card, err := d.Draw()
	assert.Nil(t, card)
	assert.Equal(t, ErrEndOfDeck, err)
}

func TestDeck_DrawCount(t *testing.T) {
	d := New()

	cards, err := d.DrawCount(5)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(cards))
	assert.Equal(t, 47, d.CardsLeft())

	_, err = d.DrawCount(48)
	assert.Equal(t, ErrEndOfDeck, err)
	assert.Equal(t, 47, d.CardsLeft())
}
