package domain

// Transition is an edge labeled by Symbol towards the state identified by To.
// The source state is implied by the list the transition belongs to.
type Transition struct {
	Symbol Symbol `json:"symbol"`
	To     Code   `json:"to"`
}
