// Package contacts keeps one TOML file per person and tracks when
// communication with them is due.
package contacts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
)

const dateLayout = "2006-01-02"

// ErrExists is returned by Create when the contact file is already there.
var ErrExists = errors.New("contact already exists")

// Date is a calendar date. The zero Date means "never" and is written as
// an empty string.
type Date struct {
	time.Time
}

// NewDate returns the Date of t.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	if d.IsZero() {
		return "never"
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalTOML() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(d.Format(dateLayout)), nil
}

func (d *Date) UnmarshalTOML(value any) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
	case string:
		if strings.TrimSpace(v) == "" {
			*d = Date{}
			return nil
		}
		t, err := time.Parse(dateLayout, strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", v, err)
		}
		*d = Date{t}
	default:
		return fmt.Errorf("invalid date: unsupported TOML value %T", value)
	}
	return nil
}

// Contact is a person and the record of communication with them.
type Contact struct {
	Name          string               `toml:"name"`
	Notes         []string             `toml:"notes"`
	Organizations []Organization       `toml:"organizations"`
	Addresses     map[string][]Address `toml:"addresses"`
	Communication Communication        `toml:"communication"`

	// Path is the file the contact was loaded from.
	Path string `toml:"-"`
}

// Organization is something a contact is part of.
type Organization struct {
	Name string `toml:"name"`
	Role string `toml:"role,omitempty"`
}

// Address is a way to reach a contact, keyed by medium ("email",
// "phone", ...) in Contact.Addresses.
type Address struct {
	Value string   `toml:"value"`
	Notes []string `toml:"notes"`
}

// Communication records past and planned interaction.
type Communication struct {
	Latest  Latest    `toml:"latest"`
	Planned []Planned `toml:"planned"`
}

// Latest holds the dates of the last communication in each direction.
type Latest struct {
	To   Date `toml:"to"`
	From Date `toml:"from"`
}

// Planned is a communication scheduled for a date.
type Planned struct {
	Date  Date     `toml:"date"`
	Notes []string `toml:"notes"`
}

// NextPlanned returns the earliest planned communication.
func (c *Contact) NextPlanned() (Planned, bool) {
	if len(c.Communication.Planned) == 0 {
		return Planned{}, false
	}
	return slices.MinFunc(c.Communication.Planned, func(a, b Planned) int {
		return a.Date.Compare(b.Date.Time)
	}), true
}

// IsDue reports whether a planned communication falls on or before today.
func (c *Contact) IsDue(today time.Time) bool {
	next, ok := c.NextPlanned()
	return ok && !next.Date.After(NewDate(today).Time)
}

// Summary is a one-line description of the contact's communication state.
func (c *Contact) Summary() string {
	latest := c.Communication.Latest
	s := fmt.Sprintf("%s (to: %s, from: %s)", c.Name, latest.To, latest.From)
	if next, ok := c.NextPlanned(); ok {
		s += fmt.Sprintf(", next: %s", next.Date)
		if len(next.Notes) > 0 {
			s += " " + strings.Join(next.Notes, "; ")
		}
	}
	return s
}

// Book is the set of contacts in a directory.
type Book struct {
	contacts []*Contact
}

// Load reads every *.toml file in dir. A missing directory is an empty
// book.
func Load(dir string) (*Book, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Book{}, nil
		}
		return nil, err
	}

	b := &Book{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		c, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading contact from %s: %w", path, err)
		}
		b.contacts = append(b.contacts, c)
	}
	slices.SortFunc(b.contacts, func(x, y *Contact) int {
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
	return b, nil
}

// LoadFile reads one contact file, rejecting unknown keys.
func LoadFile(path string) (*Contact, error) {
	var c Contact
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("invalid keys: %s", strings.Join(keys, ", "))
	}
	c.Path = path
	return &c, nil
}

// All returns every contact sorted by name.
func (b *Book) All() []*Contact {
	return b.contacts
}

// Due returns the contacts with communication due on or before today,
// most overdue first.
func (b *Book) Due(today time.Time) []*Contact {
	var due []*Contact
	for _, c := range b.contacts {
		if c.IsDue(today) {
			due = append(due, c)
		}
	}
	slices.SortStableFunc(due, func(x, y *Contact) int {
		nx, _ := x.NextPlanned()
		ny, _ := y.NextPlanned()
		return nx.Date.Compare(ny.Date.Time)
	})
	return due
}

// FileName derives a contact file name from a name: "Ex Ample" becomes
// "ex-ample.toml".
func FileName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-") + ".toml"
}

// Create writes a new, empty contact file to dir and returns it.
func Create(dir, name string) (*Contact, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("contact name must not be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating contacts dir: %w", err)
	}

	c := &Contact{
		Name:          strings.TrimSpace(name),
		Notes:         []string{},
		Organizations: []Organization{},
		Addresses:     map[string][]Address{},
		Communication: Communication{Planned: []Planned{}},
		Path:          filepath.Join(dir, FileName(name)),
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encoding contact: %w", err)
	}

	f, err := os.OpenFile(c.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%s: %w", c.Path, ErrExists)
		}
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return c, f.Close()
}
