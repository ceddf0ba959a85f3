package query

import (
	"sort"
	"strings"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortKey orders results by one field
type SortKey struct {
	Field     string
	Direction Direction
}

// ParseDirection accepts "asc"/"desc" in any case; empty means ascending
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	}
	return "", errors.NewInvalidQuery("unknown sort direction %q", s)
}

// ParseSort converts [["field","ASC"], ...] pairs into sort keys
func ParseSort(pairs [][]string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(pairs))
	for i, pair := range pairs {
		if len(pair) == 0 || len(pair) > 2 || pair[0] == "" {
			return nil, errors.NewInvalidQuery("sort condition %d must be [field, direction]", i)
		}
		dir := Asc
		if len(pair) == 2 {
			d, err := ParseDirection(pair[1])
			if err != nil {
				return nil, err
			}
			dir = d
		}
		keys = append(keys, SortKey{Field: pair[0], Direction: dir})
	}
	return keys, nil
}

func validateSort(keys []SortKey) error {
	for i, k := range keys {
		if k.Field == "" {
			return errors.NewInvalidQuery("sort condition %d has no field", i)
		}
		if k.Direction != Asc && k.Direction != Desc && k.Direction != "" {
			return errors.NewInvalidQuery("unknown sort direction %q", k.Direction)
		}
	}
	return nil
}

// sortRecords orders records in place by the keys, first key first.
// Ties that no key resolves keep their original order.
func sortRecords(recs []*data.Record, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, k := range keys {
			c := recs[i].Value(k.Field).Compare(recs[j].Value(k.Field))
			if c == 0 {
				continue
			}
			if k.Direction == Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
