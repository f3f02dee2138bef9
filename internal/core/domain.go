package core

import (
	"errors"
	"strings"
	"time"
)

// Default categories available to every user regardless of stored customs.
var DefaultCategories = []string{"Food", "Transport", "Housing", "Other"}

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	Expense struct {
		ID       string
		Username string
		Date     Date
		Category string
		Amount   Money
		Note     string
	}

	Category struct {
		Username string
		Name     string
	}

	// Budget is a per-user, per-category spending threshold for one month.
	Budget struct {
		Username  string
		Category  string
		Month     Month
		Threshold Money
	}

	// Month identifies a calendar month (YYYY-MM).
	Month struct {
		Year int
		Mon  int // 1-12
	}
)

var (
	ErrDuplicateUser      = errors.New("username already exists")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrDuplicateCategory  = errors.New("category already exists")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrNoteTooLong        = errors.New("note too long (max 200 characters)")
)

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthOf returns the calendar month the date falls in.
func (d Date) MonthOf() Month {
	return Month{Year: d.Year(), Mon: int(d.Time.Month())}
}

// Weekday returns the day name, Monday-first ordering is up to the caller.
func (d Date) Weekday() time.Weekday {
	return d.Time.Weekday()
}

func (m Money) Validate() error {
	// Zero amounts are rejected: an expense must move money.
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewMonth creates a Month from year and month numbers.
func NewMonth(year, mon int) Month {
	return Month{Year: year, Mon: mon}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Mon: int(t.Month())}, nil
}

func (m Month) Validate() error {
	if m.Year < 1 || m.Mon < 1 || m.Mon > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return time.Date(m.Year, time.Month(m.Mon), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	t := time.Date(m.Year, time.Month(m.Mon), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return Month{Year: t.Year(), Mon: int(t.Month())}
}

// Contains reports whether d falls in month m.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && int(d.Time.Month()) == m.Mon
}

func (u User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateUsername checks the username shape: 1-64 visible characters,
// no commas (CSV column safety) and no control characters.
func ValidateUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return ErrInvalidUsername
	}
	if strings.ContainsAny(name, ",\n\r\t") {
		return ErrInvalidUsername
	}
	return nil
}

func (e Expense) Validate() error {
	if err := ValidateUsername(e.Username); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrInvalidCategory
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if err := ValidateUsername(c.Username); err != nil {
		return err
	}
	name := strings.TrimSpace(c.Name)
	if name == "" || len(name) > 64 || strings.ContainsAny(name, ",\n\r") {
		return ErrInvalidCategory
	}
	return nil
}

func (b Budget) Validate() error {
	if err := ValidateUsername(b.Username); err != nil {
		return err
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrInvalidCategory
	}
	if err := b.Month.Validate(); err != nil {
		return err
	}
	if err := b.Threshold.Validate(); err != nil {
		return err
	}
	return nil
}

// IsDefaultCategory reports whether name is one of the built-in categories.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}
