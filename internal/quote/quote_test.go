package quote

import "testing"

func TestNextReturnsCompleteQuote(t *testing.T) {
	src := NewSource()

	for i := 0; i < 50; i++ {
		q, err := src.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Text == "" {
			t.Fatal("quote text must not be empty")
		}
		if q.Author == "" {
			t.Fatal("quote author must not be empty")
		}
	}
}

func TestNextEmptyPool(t *testing.T) {
	src := &Source{}
	if _, err := src.Next(); err != ErrEmptyPool {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}
