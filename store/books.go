package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jhansigoday/bookbridge/models"
)

const bookColumns = `b.id, b.title, b.author, b.category, b.description, b.book_condition,
	b.status, b.is_free_to_read, b.is_featured, b.donor_id, b.sharing_type,
	b.price, b.time_span_days, b.donor_location, b.cover_url, b.created_at, u.full_name`

func scanBook(rows interface{ Scan(...interface{}) error }) (models.Book, error) {
	var b models.Book
	var category, description, condition, sharingType, donorLocation, coverURL, donorName sql.NullString
	var price, timeSpan sql.NullInt64
	err := rows.Scan(&b.ID, &b.Title, &b.Author, &category, &description, &condition,
		&b.Status, &b.IsFreeToRead, &b.IsFeatured, &b.DonorID, &sharingType,
		&price, &timeSpan, &donorLocation, &coverURL, &b.CreatedAt, &donorName)
	if err != nil {
		return b, err
	}
	b.Category = category.String
	b.Description = description.String
	b.Condition = condition.String
	b.SharingType = sharingType.String
	b.Price = int(price.Int64)
	b.TimeSpanDays = int(timeSpan.Int64)
	b.DonorLocation = donorLocation.String
	b.CoverURL = coverURL.String
	b.DonorName = donorName.String
	return b, nil
}

func (s *MySQLStore) queryBooks(query string, args ...interface{}) ([]models.Book, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *MySQLStore) CreateBook(book *models.Book) error {
	book.ID = uuid.NewString()
	book.CreatedAt = time.Now()
	if book.Status == "" {
		book.Status = models.BookAvailable
	}
	_, err := s.db.Exec(
		`INSERT INTO books (id, title, author, category, description, book_condition, status,
			is_free_to_read, is_featured, donor_id, sharing_type, price, time_span_days,
			donor_location, cover_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, book.Category, book.Description, book.Condition,
		book.Status, book.IsFreeToRead, book.IsFeatured, book.DonorID, book.SharingType,
		book.Price, book.TimeSpanDays, book.DonorLocation, book.CoverURL, book.CreatedAt,
	)
	return err
}

func (s *MySQLStore) GetBookByID(id string) (*models.Book, error) {
	row := s.db.QueryRow(
		"SELECT "+bookColumns+" FROM books b JOIN users u ON b.donor_id = u.id WHERE b.id = ?", id)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBrowsableBooks lists books eligible for browse/request: available and
// not free-to-read.
func (s *MySQLStore) GetBrowsableBooks() ([]models.Book, error) {
	return s.queryBooks(
		"SELECT " + bookColumns + ` FROM books b JOIN users u ON b.donor_id = u.id
		WHERE b.status = 'available' AND b.is_free_to_read = FALSE
		ORDER BY b.created_at DESC`)
}

// GetFreeBooks lists books offered for online reading.
func (s *MySQLStore) GetFreeBooks() ([]models.Book, error) {
	return s.queryBooks(
		"SELECT " + bookColumns + ` FROM books b JOIN users u ON b.donor_id = u.id
		WHERE b.is_free_to_read = TRUE AND b.status <> 'donated'
		ORDER BY b.created_at DESC`)
}

func (s *MySQLStore) GetBooksByDonor(donorID string) ([]models.Book, error) {
	return s.queryBooks(
		"SELECT "+bookColumns+` FROM books b JOIN users u ON b.donor_id = u.id
		WHERE b.donor_id = ? ORDER BY b.created_at DESC`, donorID)
}

// DeleteBook removes a donor's book together with its requests; contact
// exchanges go with their requests through the schema's cascade.
func (s *MySQLStore) DeleteBook(id, donorID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM book_requests WHERE book_id = ?", id); err != nil {
		return err
	}

	res, err := tx.Exec("DELETE FROM books WHERE id = ? AND donor_id = ?", id, donorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookNotFound
	}

	return tx.Commit()
}
