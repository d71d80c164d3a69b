// Package changes builds the human readable audit lines recorded when a
// change request alters a WBS element.
package changes

import (
	"context"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

const (
	verbRemoved = "Removed"
	verbAdded   = "Added new"
)

// ChangeDetail is the generic "changed from ... to ..." line.
func ChangeDetail(field string, oldValue, newValue any) string {
	return fmt.Sprintf("Changed %s from \"%v\" to \"%v\"", field, oldValue, newValue)
}

// AddedDetail is used when a field had no previous value.
func AddedDetail(field string, newValue any) string {
	return fmt.Sprintf("Added %s \"%v\"", field, newValue)
}

func listDetail(verb, field, text string) string {
	return fmt.Sprintf("%s %s \"%s\"", verb, field, text)
}

// Scalar compares by value. A nil old value means the field was never set.
func Scalar[T comparable](field string, oldValue *T, newValue T) (string, bool) {
	if oldValue == nil {
		return AddedDetail(field, newValue), true
	}
	if *oldValue == newValue {
		return "", false
	}
	return ChangeDetail(field, *oldValue, newValue), true
}

// Date compares calendar days in UTC only, time of day is ignored.
func Date(field string, oldValue, newValue time.Time) (string, bool) {
	if sameDay(oldValue, newValue) {
		return "", false
	}
	return ChangeDetail(field, FormatDate(oldValue), FormatDate(newValue)), true
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// WBSResolver turns WBS element ids into their dotted wbs numbers.
type WBSResolver interface {
	WBSNumbers(ctx context.Context, ids []uint) (map[uint]string, error)
}

// UnresolvedError is returned when a dependency id has no WBS element.
type UnresolvedError struct {
	IDs []uint
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("wbs elements %v not found", e.IDs)
}

// Dependencies diffs two dependency lists as sets. Removed entries come first,
// then added ones, each in the order they appear in their list.
func Dependencies(ctx context.Context, resolver WBSResolver, field string, oldIDs, newIDs []uint) ([]string, error) {
	removed := difference(oldIDs, newIDs)
	added := difference(newIDs, oldIDs)
	if len(removed) == 0 && len(added) == 0 {
		return nil, nil
	}

	lookup := make([]uint, 0, len(removed)+len(added))
	lookup = append(lookup, removed...)
	lookup = append(lookup, added...)

	numbers, err := resolver.WBSNumbers(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}

	var missing []uint
	for _, id := range lookup {
		if _, ok := numbers[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &UnresolvedError{IDs: missing}
	}

	details := make([]string, 0, len(lookup))
	for _, id := range removed {
		details = append(details, listDetail(verbRemoved, field, numbers[id]))
	}
	for _, id := range added {
		details = append(details, listDetail(verbAdded, field, numbers[id]))
	}
	return details, nil
}

// difference returns the distinct members of a that are not in b.
func difference(a, b []uint) []uint {
	inB := make(map[uint]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	seen := make(map[uint]struct{}, len(a))
	var out []uint
	for _, id := range a {
		if _, ok := inB[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Strings diffs two lists of plain text entries as sets. Removed entries come
// first, both in list order.
func Strings(field string, oldValues, newValues []string) []string {
	oldSet := make(map[string]struct{}, len(oldValues))
	for _, v := range oldValues {
		oldSet[v] = struct{}{}
	}
	newSet := make(map[string]struct{}, len(newValues))
	for _, v := range newValues {
		newSet[v] = struct{}{}
	}

	var details []string
	seen := make(map[string]struct{})
	for _, v := range oldValues {
		if _, ok := newSet[v]; ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		details = append(details, listDetail(verbRemoved, field, v))
	}
	for _, v := range newValues {
		if _, ok := oldSet[v]; ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		details = append(details, listDetail(verbAdded, field, v))
	}
	return details
}

// Bullet is a description bullet as sent by the client. Negative ids are
// bullets the client has not persisted yet.
type Bullet struct {
	ID     int
	Detail string
}

type BulletDiff struct {
	DeletedIDs   []int
	AddedDetails []string
	Edited       []Bullet
	Details      []string
}

func (d BulletDiff) Empty() bool {
	return len(d.Details) == 0
}

// Bullets diffs two bullet lists by id.
func Bullets(field string, oldBullets, newBullets []Bullet) BulletDiff {
	var diff BulletDiff

	oldByID := make(map[int]Bullet, len(oldBullets))
	for _, b := range oldBullets {
		oldByID[b.ID] = b
	}
	newIDs := make(map[int]struct{}, len(newBullets))
	for _, b := range newBullets {
		if b.ID >= 0 {
			newIDs[b.ID] = struct{}{}
		}
	}

	for _, b := range oldBullets {
		if _, ok := newIDs[b.ID]; ok {
			continue
		}
		diff.DeletedIDs = append(diff.DeletedIDs, b.ID)
		diff.Details = append(diff.Details, listDetail(verbRemoved, field, b.Detail))
	}

	edited := make(map[int]struct{})
	for _, b := range newBullets {
		prev, known := oldByID[b.ID]
		switch {
		case b.ID < 0 || !known:
			diff.AddedDetails = append(diff.AddedDetails, b.Detail)
			diff.Details = append(diff.Details, listDetail(verbAdded, field, b.Detail))
		case prev.Detail != b.Detail:
			if _, dup := edited[b.ID]; dup {
				continue
			}
			edited[b.ID] = struct{}{}
			diff.Edited = append(diff.Edited, b)
			diff.Details = append(diff.Details, ChangeDetail(field, prev.Detail, b.Detail))
		}
	}

	return diff
}
