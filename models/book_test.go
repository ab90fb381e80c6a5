package models

import "testing"

func TestFilterBooksCombinesPredicates(t *testing.T) {
	books := []Book{
		{ID: "a", Title: "A", Author: "Climate Change Solutions", Category: "science", Condition: "good", Status: BookAvailable},
		{ID: "b", Title: "B", Author: "Someone", Category: "fiction", Condition: "good", Status: BookAvailable},
	}

	got := FilterBooks(books, BookFilter{Query: "Solutions", Category: "science"})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only book a, got %v", got)
	}
}

func TestFilterBooksQueryMatchesTitleOrAuthor(t *testing.T) {
	books := []Book{
		{ID: "a", Title: "Deep Learning", Author: "Ian", Status: BookAvailable},
		{ID: "b", Title: "Cooking", Author: "Deepa", Status: BookAvailable},
		{ID: "c", Title: "Gardening", Author: "Rose", Status: BookAvailable},
	}

	got := FilterBooks(books, BookFilter{Query: "deep"})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
}

func TestFilterBooksExcludesNonBrowsable(t *testing.T) {
	books := []Book{
		{ID: "donated", Status: BookDonated},
		{ID: "requested", Status: BookRequested},
		{ID: "free", Status: BookAvailable, IsFreeToRead: true},
		{ID: "ok", Status: BookAvailable},
	}

	got := FilterBooks(books, BookFilter{})
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only the available non-free book, got %v", got)
	}
}

func TestFilterBooksEmptyFilterKeepsOrder(t *testing.T) {
	books := []Book{
		{ID: "1", Status: BookAvailable},
		{ID: "2", Status: BookAvailable},
		{ID: "3", Status: BookAvailable},
	}
	got := FilterBooks(books, BookFilter{})
	for i, b := range got {
		if b.ID != books[i].ID {
			t.Fatalf("order changed at %d: %s", i, b.ID)
		}
	}
}

func TestFilterCategoryCaseInsensitive(t *testing.T) {
	b := Book{Title: "X", Category: "Science", Status: BookAvailable}
	if !(BookFilter{Category: "science"}).Matches(&b) {
		t.Fatal("category match should ignore case")
	}
}

func TestVocabularies(t *testing.T) {
	if !ValidCategory("science") || ValidCategory("astrology") {
		t.Fatal("category validation wrong")
	}
	if !ValidCondition("good") || ValidCondition("mint") {
		t.Fatal("condition validation wrong")
	}
	if !ValidSharingType(SharingSellBook) || ValidSharingType("lend") {
		t.Fatal("sharing type validation wrong")
	}
}
