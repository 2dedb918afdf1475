package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date without a time component. The zero value
	// means "no date" for optional fields such as product expiry.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Product is one inventory line. The local cache holds the
	// authoritative copy between server syncs; views only hold
	// references into it.
	Product struct {
		ID         int64
		Name       string
		Quantity   float64
		Unit       string
		Category   string // free text, may be empty or untrimmed
		Shop       string
		ExpiryDate Date
		IsFrozen   bool
	}

	// ProductPatch carries the editable subset of product fields for a
	// partial update. Nil pointers mean "leave unchanged".
	ProductPatch struct {
		ExpiryDate *Date
		IsFrozen   *bool
	}

	// ProductDraft is the client-side input for creating a product.
	// The server assigns the identifier.
	ProductDraft struct {
		Name       string  `json:"name" validate:"required,max=200"`
		Category   string  `json:"category" validate:"max=100"`
		Quantity   float64 `json:"quantity" validate:"gt=0"`
		Unit       string  `json:"unit" validate:"max=20"`
		Price      float64 `json:"price" validate:"gte=0"`
		ExpiryDate Date    `json:"expiry_date"`
	}

	// Receipt is one purchase event, bucketed by its purchase date.
	Receipt struct {
		ID    int64
		Date  Date
		Shop  string
		Total Money
	}

	// ReceiptItem is one line of a receipt, fetched lazily with the
	// receipt detail.
	ReceiptItem struct {
		Name      string
		Category  string
		Quantity  float64
		UnitPrice Money
		Unit      string
	}

	ReceiptDetail struct {
		Receipt Receipt
		Items   []ReceiptItem
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyName     = errors.New("empty name")
	ErrNotFound      = errors.New("not found")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Key returns the YYYY-MM-DD form used as bucketing key and wire format.
func (d Date) Key() string {
	return d.Format(dateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when empty.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Key())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Quantity < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Receipt) Validate() error {
	if r.Date.IsZero() {
		return errors.New("receipt date cannot be zero")
	}
	if strings.TrimSpace(r.Shop) == "" {
		return errors.New("empty shop name")
	}
	return nil
}
