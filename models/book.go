package models

import (
	"strings"
	"time"
)

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookRequested BookStatus = "requested"
	BookDonated   BookStatus = "donated"
)

// Sharing types describe how a donor wants to part with a book.
const (
	SharingFreeDonation = "free_donation"
	SharingSellBook     = "sell_book"
	SharingDonatePeriod = "donate_period"
)

var SharingTypes = []string{SharingFreeDonation, SharingSellBook, SharingDonatePeriod}

// Categories accepted by the donation form.
var Categories = []string{
	"fiction", "non-fiction", "science", "technology", "history", "biography",
	"self-help", "education", "business", "arts", "health", "religion",
	"philosophy", "mystery", "romance", "fantasy", "science-fiction",
	"academic", "competitive", "other",
}

var Conditions = []string{"excellent", "good", "fair", "poor"}

type Book struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Author        string     `json:"author" db:"author"`
	Category      string     `json:"category" db:"category"`
	Description   string     `json:"description,omitempty" db:"description"`
	Condition     string     `json:"condition" db:"book_condition"`
	Status        BookStatus `json:"status" db:"status"`
	IsFreeToRead  bool       `json:"is_free_to_read" db:"is_free_to_read"`
	IsFeatured    bool       `json:"is_featured" db:"is_featured"`
	DonorID       string     `json:"donor_id" db:"donor_id"`
	DonorName     string     `json:"donor_name,omitempty"`
	SharingType   string     `json:"sharing_type" db:"sharing_type"`
	Price         int        `json:"price,omitempty" db:"price"`
	TimeSpanDays  int        `json:"time_span_days,omitempty" db:"time_span_days"`
	DonorLocation string     `json:"donor_location,omitempty" db:"donor_location"`
	CoverURL      string     `json:"cover_url,omitempty" db:"cover_url"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// DonateRequest is the payload for listing a new book.
type DonateRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Condition     string `json:"condition"`
	IsFreeToRead  bool   `json:"is_free_to_read"`
	SharingType   string `json:"sharing_type"`
	Price         int    `json:"price"`
	TimeSpanDays  int    `json:"time_span_days"`
	DonorLocation string `json:"donor_location"`
	CoverURL      string `json:"cover_url"`
}

// Browsable reports whether a book may appear in browse/request listings.
// Donated books and free-to-read books never show up there.
func (b *Book) Browsable() bool {
	return b.Status == BookAvailable && !b.IsFreeToRead
}

// BookFilter combines catalog predicates. Zero values match everything.
type BookFilter struct {
	Query       string
	Category    string
	Condition   string
	SharingType string
}

func (f BookFilter) Matches(b *Book) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(b.Category, f.Category) {
		return false
	}
	if f.Condition != "" && !strings.EqualFold(b.Condition, f.Condition) {
		return false
	}
	if f.SharingType != "" && b.SharingType != f.SharingType {
		return false
	}
	return true
}

// FilterBooks returns the browsable subset of books matching every predicate
// in f, preserving input order.
func FilterBooks(books []Book, f BookFilter) []Book {
	filtered := make([]Book, 0, len(books))
	for i := range books {
		b := &books[i]
		if b.Browsable() && f.Matches(b) {
			filtered = append(filtered, *b)
		}
	}
	return filtered
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidCondition(c string) bool {
	for _, v := range Conditions {
		if v == c {
			return true
		}
	}
	return false
}

func ValidSharingType(s string) bool {
	for _, v := range SharingTypes {
		if v == s {
			return true
		}
	}
	return false
}
