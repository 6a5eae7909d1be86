// Package shopping builds a user's consolidated shopping list out of
// the recipes in their cart and renders it as a printable PDF.
package shopping

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a Composer for an unknown recipe id.
	ErrNotFound = errors.New("recipe not found")

	// ErrDanglingReference means a cart entry points at a recipe that
	// no longer exists. The whole aggregation is aborted: a partially
	// merged list must never be presented as authoritative.
	ErrDanglingReference = errors.New("cart references a missing recipe")

	// ErrInvalidRecipeState means a recipe had no line items, which is
	// unreachable under the creation invariant and treated as a
	// data-integrity bug.
	ErrInvalidRecipeState = errors.New("recipe has no line items")

	// ErrInvariantViolation means an aggregated total was not positive.
	ErrInvariantViolation = errors.New("non-positive total amount")
)

// LineItem is one (ingredient, amount) pairing inside a recipe, with
// the ingredient already resolved to its name and unit.
type LineItem struct {
	Name   string
	Unit   string
	Amount int
}

// Composer resolves a recipe id to its line items. Ordering is
// irrelevant; a valid recipe always has at least one item.
type Composer interface {
	LineItemsOf(ctx context.Context, recipeID string) ([]LineItem, error)
}

// AggregatedLine is one row of the consolidated list: the summed
// amount of every line item sharing this ingredient name.
type AggregatedLine struct {
	Name  string
	Unit  string
	Total int
}

// List is the consolidated shopping list. Lines keep the order in
// which their ingredient name was first observed, so rendering the
// same cart twice produces identical output.
type List struct {
	index map[string]int
	lines []AggregatedLine
}

func newList() *List {
	return &List{index: make(map[string]int)}
}

// Merging keys strictly on ingredient name. The catalog does not make
// names unique, so two ingredients sharing a name with different units
// collapse into one row carrying whichever unit was seen first.
func (l *List) add(item LineItem) {
	if i, ok := l.index[item.Name]; ok {
		l.lines[i].Total += item.Amount
		return
	}
	l.index[item.Name] = len(l.lines)
	l.lines = append(l.lines, AggregatedLine{
		Name:  item.Name,
		Unit:  item.Unit,
		Total: item.Amount,
	})
}

func (l *List) Len() int {
	return len(l.lines)
}

// Lines returns the rows in first-insertion order.
func (l *List) Lines() []AggregatedLine {
	return l.lines
}

func (l *List) Get(name string) (AggregatedLine, bool) {
	if i, ok := l.index[name]; ok {
		return l.lines[i], true
	}
	return AggregatedLine{}, false
}

// Aggregate resolves every cart recipe through src and merges the line
// items per distinct ingredient name. An empty cart yields an empty
// list. The caller supplies the recipe ids of one user's cart; cart
// uniqueness already guarantees no duplicate entries.
func Aggregate(ctx context.Context, src Composer, recipeIDs []string) (*List, error) {
	list := newList()

	for _, id := range recipeIDs {
		items, err := src.LineItemsOf(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("recipe %s: %w", id, ErrDanglingReference)
			}
			return nil, fmt.Errorf("recipe %s: %w", id, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrInvalidRecipeState)
		}

		for _, item := range items {
			list.add(item)
		}
	}

	return list, nil
}
