package orm

import (
	"errors"
	"testing"
	"time"
)

type Book struct {
	ID        int64  `orm:"primary_key,auto"`
	Title     string `orm:"max_length=200,notnull"`
	Author    string `orm:"max_length=100"`
	Year      int
	Available bool      `orm:"default=1"`
	AddedAt   time.Time `orm:"-"`
}

func openTestDB(t *testing.T) *Manager {
	t.Helper()

	m, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	if err := m.CreateTable(&Book{}); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	return m
}

func seed(t *testing.T, m *Manager) {
	t.Helper()
	books := []Book{
		{Title: "SICP", Author: "Abelson", Year: 1985, Available: true},
		{Title: "TAOCP", Author: "Knuth", Year: 1968, Available: true},
		{Title: "K&R", Author: "Kernighan", Year: 1978, Available: false},
	}
	for i := range books {
		if err := m.Save(&books[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
}

// TestSaveAssignsAutoKey tests insert + generated primary key
func TestSaveAssignsAutoKey(t *testing.T) {
	m := openTestDB(t)

	book := Book{Title: "SICP", Author: "Abelson", Year: 1985}
	if err := m.Save(&book); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if book.ID == 0 {
		t.Error("Expected auto-assigned primary key")
	}
}

// TestSaveUpdatesExisting tests that a second Save updates in place
func TestSaveUpdatesExisting(t *testing.T) {
	m := openTestDB(t)

	book := Book{Title: "SICP", Year: 1985}
	if err := m.Save(&book); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	book.Year = 1996
	if err := m.Save(&book); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	count, err := m.Query(&Book{}).Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected a single row after update, got %d", count)
	}

	var got Book
	if err := m.Query(&Book{}).Filter("id", book.ID).Get(&got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Year != 1996 {
		t.Errorf("Expected updated year 1996, got %d", got.Year)
	}
}

// TestQueryFilterExclude tests the =/!= operator surface
func TestQueryFilterExclude(t *testing.T) {
	m := openTestDB(t)
	seed(t, m)

	var available []Book
	if err := m.Query(&Book{}).Filter("available", true).All(&available); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(available) != 2 {
		t.Errorf("Expected 2 available books, got %d", len(available))
	}

	var notKnuth []Book
	if err := m.Query(&Book{}).Exclude("author", "Knuth").All(&notKnuth); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(notKnuth) != 2 {
		t.Errorf("Expected 2 non-Knuth books, got %d", len(notKnuth))
	}
}

// TestQueryOrderLimitOffset tests ordering and paging
func TestQueryOrderLimitOffset(t *testing.T) {
	m := openTestDB(t)
	seed(t, m)

	var books []Book
	if err := m.Query(&Book{}).OrderBy("-year").Limit(2).All(&books); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(books) != 2 || books[0].Year != 1985 || books[1].Year != 1978 {
		t.Errorf("Unexpected ordering: %+v", books)
	}

	var paged []Book
	if err := m.Query(&Book{}).OrderBy("year").Offset(1).Limit(1).All(&paged); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(paged) != 1 || paged[0].Year != 1978 {
		t.Errorf("Unexpected page: %+v", paged)
	}
}

// TestQueryFirst tests the optional-result accessor
func TestQueryFirst(t *testing.T) {
	m := openTestDB(t)
	seed(t, m)

	var book Book
	ok, err := m.Query(&Book{}).OrderBy("year").First(&book)
	if err != nil {
		t.Fatalf("First failed: %v", err)
	}
	if !ok || book.Title != "TAOCP" {
		t.Errorf("Expected TAOCP first, got ok=%v %+v", ok, book)
	}

	ok, err = m.Query(&Book{}).Filter("author", "Nobody").First(&book)
	if err != nil {
		t.Fatalf("First failed: %v", err)
	}
	if ok {
		t.Error("Expected no match")
	}
}

// TestQueryGetSentinels tests ErrDoesNotExist and ErrMultipleObjects
func TestQueryGetSentinels(t *testing.T) {
	m := openTestDB(t)
	seed(t, m)

	var book Book
	if err := m.Query(&Book{}).Filter("author", "Nobody").Get(&book); !errors.Is(err, ErrDoesNotExist) {
		t.Errorf("Expected ErrDoesNotExist, got %v", err)
	}
	if err := m.Query(&Book{}).Filter("available", true).Get(&book); !errors.Is(err, ErrMultipleObjects) {
		t.Errorf("Expected ErrMultipleObjects, got %v", err)
	}
	if err := m.Query(&Book{}).Filter("author", "Knuth").Get(&book); err != nil {
		t.Errorf("Expected single match, got %v", err)
	}
}

// TestQueryDelete tests bulk delete with conditions
func TestQueryDelete(t *testing.T) {
	m := openTestDB(t)
	seed(t, m)

	n, err := m.Query(&Book{}).Filter("available", false).Delete()
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 deleted row, got %d", n)
	}

	count, err := m.Query(&Book{}).Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 remaining rows, got %d", count)
	}
}

// TestDeleteInstance tests row deletion by primary key
func TestDeleteInstance(t *testing.T) {
	m := openTestDB(t)

	book := Book{Title: "SICP"}
	if err := m.Save(&book); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Delete(&book); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	count, err := m.Query(&Book{}).Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected empty table, got %d rows", count)
	}
}

// TestSnakeCase tests column name derivation
func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Title", "title"},
		{"AddedAt", "added_at"},
		{"UserID", "user_id"},
		{"ID", "id"},
	}
	for _, tt := range tests {
		if got := snakeCase(tt.in); got != tt.want {
			t.Errorf("snakeCase(%s): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}
