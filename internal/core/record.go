package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Record is a single odometer reading taken at a fuel purchase.
	Record struct {
		Amount      decimal.Decimal // money spent at this stop
		AtDistance  decimal.Decimal // cumulative odometer reading
		DateChanged string          // raw date or date-time, parsed lazily
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDistance   = errors.New("invalid distance")
	ErrInvalidDate       = errors.New("invalid date")
	ErrEmptyCollection   = errors.New("empty collection name")
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Collection names double as table and sheet names, so they are restricted
// to lowercase identifiers.
var collectionPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidateCollection checks that name can be used to address a record source.
func ValidateCollection(name string) error {
	if name == "" {
		return ErrEmptyCollection
	}
	if len(name) > 63 || !collectionPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// ParseRecord builds a Record from the textual columns a source returns.
// Only the numeric fields are checked here: the date is kept verbatim so the
// aggregation can skip it per record.
func ParseRecord(amount, atDistance, dateChanged string) (Record, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Record{}, err
	}
	dist, err := ParseDistance(atDistance)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Amount:      amt,
		AtDistance:  dist,
		DateChanged: strings.TrimSpace(dateChanged),
	}, nil
}

// Validate checks every field, including that the date is parseable in loc.
func (r Record) Validate(loc *time.Location) error {
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.AtDistance.IsNegative() {
		return ErrInvalidDistance
	}
	if _, err := ParseDate(r.DateChanged, loc); err != nil {
		return err
	}
	return nil
}

func (r Record) String() string {
	return fmt.Sprintf("{amount:%s at_distance:%s date_changed:%q}", r.Amount, r.AtDistance, r.DateChanged)
}
