package quote

import (
	"errors"
	"math/rand"
)

// Quote is a single motivational quote with attribution.
type Quote struct {
	Text   string `json:"quote"`
	Author string `json:"author"`
}

// ErrEmptyPool is returned when a Source has no quotes to pick from.
var ErrEmptyPool = errors.New("quote pool is empty")

// String renders the quote the way it is spoken: the text followed by the
// author attribution.
func (q Quote) String() string {
	return `"` + q.Text + `" - ` + q.Author
}

var defaultPool = []Quote{
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Believe you can and you're halfway there.", Author: "Theodore Roosevelt"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius"},
	{Text: "Your time is limited, don't waste it living someone else's life.", Author: "Steve Jobs"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	{Text: "Don't watch the clock; do what it does. Keep going.", Author: "Sam Levenson"},
	{Text: "The best way to predict the future is to create it.", Author: "Peter Drucker"},
	{Text: "Success is not final, failure is not fatal: It is the courage to continue that counts.", Author: "Winston Churchill"},
	{Text: "You are never too old to set another goal or to dream a new dream.", Author: "C.S. Lewis"},
	{Text: "The only limit to our realization of tomorrow will be our doubts of today.", Author: "Franklin D. Roosevelt"},
}

// Source hands out motivational quotes from a fixed pool, uniformly at random.
type Source struct {
	pool []Quote
}

// NewSource creates a Source backed by the built-in pool.
func NewSource() *Source {
	return &Source{pool: defaultPool}
}

// Next returns a randomly selected quote.
func (s *Source) Next() (Quote, error) {
	if len(s.pool) == 0 {
		return Quote{}, ErrEmptyPool
	}
	return s.pool[rand.Intn(len(s.pool))], nil
}
