package reference

import (
	"fmt"
	"io"
	"sort"

	"github.com/okian/travrank/internal/domain/model"
	"github.com/okian/travrank/pkg/metrics"
)

// DefaultFindRating is the rating Find assumes for a driver it does not know.
const DefaultFindRating = 3

// DriverBook holds driver ratings keyed by folded name. A nil or empty book
// is valid and knows no one. It is read-only after construction.
type DriverBook struct {
	byKey map[string]model.Driver
	all   []model.Driver
}

// NewDriverBook validates drivers and indexes them. A later record with the
// same folded name replaces an earlier one.
func NewDriverBook(drivers []model.Driver) (*DriverBook, error) {
	b := &DriverBook{byKey: make(map[string]model.Driver, len(drivers))}
	for i, d := range drivers {
		key := FoldKey(d.Name)
		if key == "" {
			return nil, fmt.Errorf("driver #%d: %w", i, ErrEmptyName)
		}
		if !d.Valid() {
			return nil, fmt.Errorf("driver %q rating %d: %w", d.Name, d.Rating, ErrInvalidRating)
		}
		b.byKey[key] = d
	}
	b.all = make([]model.Driver, 0, len(b.byKey))
	for _, d := range b.byKey {
		b.all = append(b.all, d)
	}
	sort.Slice(b.all, func(i, j int) bool { return b.all[i].Name < b.all[j].Name })
	metrics.UpdateReferenceRecords(KindDrivers, len(b.all))
	return b, nil
}

// LoadDrivers reads a JSON array of {name, rating} records.
func LoadDrivers(r io.Reader) (*DriverBook, error) {
	var drivers []model.Driver
	if err := json.NewDecoder(r).Decode(&drivers); err != nil {
		return nil, fmt.Errorf("%w: drivers: %w", ErrDecode, err)
	}
	return NewDriverBook(drivers)
}

// Lookup returns the reference record for name, matched case-insensitively.
func (b *DriverBook) Lookup(name string) (model.Driver, bool) {
	if b == nil {
		return model.Driver{}, false
	}
	d, ok := b.byKey[FoldKey(name)]
	return d, ok
}

// Find is Lookup with a fallback: unknown drivers get DefaultFindRating and
// keep the queried name.
func (b *DriverBook) Find(name string) model.Driver {
	if d, ok := b.Lookup(name); ok {
		return d
	}
	return model.Driver{Name: name, Rating: DefaultFindRating}
}

// All returns every driver sorted by name.
func (b *DriverBook) All() []model.Driver {
	if b == nil {
		return []model.Driver{}
	}
	out := make([]model.Driver, len(b.all))
	copy(out, b.all)
	return out
}

// Len returns the number of distinct drivers.
func (b *DriverBook) Len() int {
	if b == nil {
		return 0
	}
	return len(b.all)
}
