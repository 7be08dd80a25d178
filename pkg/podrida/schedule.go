package podrida

// numSeats is the fixed table size; a tournament cannot start without exactly
// five seated players
const numSeats = 5

// handSchedule is the number of cards dealt per hand over the 21-hand
// tournament. Hands 11-13 (indices 10-12) are played without a trump suit.
var handSchedule = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// totalHands is the number of hands in a tournament
var totalHands = len(handSchedule)

const (
	noTrumpFirstHand = 10
	noTrumpLastHand  = 12
)

// cardCountForHand returns how many cards each player is dealt for the hand
func cardCountForHand(handIndex int) int {
	return handSchedule[handIndex]
}

// isNoTrumpHand returns true if the hand is played without a trump suit
func isNoTrumpHand(handIndex int) bool {
	return handIndex >= noTrumpFirstHand && handIndex <= noTrumpLastHand
}

// dealerSeat returns the seat of the dealer for the hand
func dealerSeat(handIndex int) int {
	return handIndex % numSeats
}

// handLabel describes the phase of the tournament for the hand
func handLabel(handIndex int) string {
	if isNoTrumpHand(handIndex) {
		return "sin triunfo"
	}

	if handIndex > noTrumpLastHand {
		return "bajando"
	}

	return "subiendo"
}
