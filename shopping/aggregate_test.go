package shopping

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeComposer serves line items from a map, mimicking the recipe
// composition collaborator.
type fakeComposer map[string][]LineItem

func (f fakeComposer) LineItemsOf(_ context.Context, recipeID string) ([]LineItem, error) {
	items, ok := f[recipeID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", recipeID, ErrNotFound)
	}
	return items, nil
}

func TestAggregate(t *testing.T) {
	src := fakeComposer{
		"pancakes": {
			{Name: "Flour", Unit: "g", Amount: 200},
			{Name: "Sugar", Unit: "g", Amount: 100},
			{Name: "Milk", Unit: "ml", Amount: 300},
		},
		"cookies": {
			{Name: "Sugar", Unit: "g", Amount: 50},
			{Name: "Flour", Unit: "g", Amount: 150},
		},
		"soup": {
			{Name: "Salt", Unit: "tsp", Amount: 1},
		},
	}

	tests := []struct {
		name string
		cart []string
		want map[string]AggregatedLine
	}{
		{
			name: "empty cart",
			cart: nil,
			want: map[string]AggregatedLine{},
		},
		{
			name: "single recipe single ingredient",
			cart: []string{"soup"},
			want: map[string]AggregatedLine{
				"Salt": {Name: "Salt", Unit: "tsp", Total: 1},
			},
		},
		{
			name: "cross recipe merge",
			cart: []string{"pancakes", "cookies"},
			want: map[string]AggregatedLine{
				"Flour": {Name: "Flour", Unit: "g", Total: 350},
				"Sugar": {Name: "Sugar", Unit: "g", Total: 150},
				"Milk":  {Name: "Milk", Unit: "ml", Total: 300},
			},
		},
		{
			name: "three recipes",
			cart: []string{"pancakes", "cookies", "soup"},
			want: map[string]AggregatedLine{
				"Flour": {Name: "Flour", Unit: "g", Total: 350},
				"Sugar": {Name: "Sugar", Unit: "g", Total: 150},
				"Milk":  {Name: "Milk", Unit: "ml", Total: 300},
				"Salt":  {Name: "Salt", Unit: "tsp", Total: 1},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list, err := Aggregate(context.Background(), src, tc.cart)
			if err != nil {
				t.Fatalf("Aggregate: %v", err)
			}
			if list.Len() != len(tc.want) {
				t.Fatalf("got %d lines, want %d", list.Len(), len(tc.want))
			}
			got := make(map[string]AggregatedLine)
			for _, line := range list.Lines() {
				got[line.Name] = line
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	src := fakeComposer{
		"a": {{Name: "Sugar", Unit: "g", Amount: 100}, {Name: "Flour", Unit: "g", Amount: 20}},
		"b": {{Name: "Sugar", Unit: "g", Amount: 50}},
	}

	ab, err := Aggregate(context.Background(), src, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Aggregate(context.Background(), src, []string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"Sugar", "Flour"} {
		x, ok1 := ab.Get(name)
		y, ok2 := ba.Get(name)
		if !ok1 || !ok2 {
			t.Fatalf("%s missing from one of the lists", name)
		}
		if x.Total != y.Total || x.Unit != y.Unit {
			t.Errorf("%s: [a b] gives %v, [b a] gives %v", name, x, y)
		}
	}
}

func TestAggregateFirstUnitWins(t *testing.T) {
	// Two catalog entries share the name "Pepper" with different units;
	// the unit observed first sticks.
	src := fakeComposer{
		"a": {{Name: "Pepper", Unit: "g", Amount: 5}},
		"b": {{Name: "Pepper", Unit: "pcs", Amount: 2}},
	}

	list, err := Aggregate(context.Background(), src, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	line, ok := list.Get("Pepper")
	if !ok {
		t.Fatal("Pepper missing")
	}
	if line.Unit != "g" || line.Total != 7 {
		t.Errorf("got unit %q total %d, want g 7", line.Unit, line.Total)
	}
}

func TestAggregateInsertionOrder(t *testing.T) {
	src := fakeComposer{
		"a": {{Name: "C", Unit: "g", Amount: 1}, {Name: "A", Unit: "g", Amount: 1}},
		"b": {{Name: "B", Unit: "g", Amount: 1}, {Name: "A", Unit: "g", Amount: 1}},
	}

	list, err := Aggregate(context.Background(), src, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	var order []string
	for _, line := range list.Lines() {
		order = append(order, line.Name)
	}
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("got order %v, want %v", order, want)
	}
}

func TestAggregateDanglingReference(t *testing.T) {
	src := fakeComposer{
		"a": {{Name: "Flour", Unit: "g", Amount: 200}},
	}

	list, err := Aggregate(context.Background(), src, []string{"a", "deleted"})
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("got err %v, want ErrDanglingReference", err)
	}
	if list != nil {
		t.Errorf("got partial list %v, want nil", list)
	}
}

func TestAggregateInvalidRecipeState(t *testing.T) {
	src := fakeComposer{
		"empty": {},
	}

	_, err := Aggregate(context.Background(), src, []string{"empty"})
	if !errors.Is(err, ErrInvalidRecipeState) {
		t.Fatalf("got err %v, want ErrInvalidRecipeState", err)
	}
}

func TestAggregatePropagatesComposerErrors(t *testing.T) {
	boom := errors.New("connection reset")
	src := errComposer{err: boom}

	_, err := Aggregate(context.Background(), src, []string{"a"})
	if !errors.Is(err, boom) {
		t.Fatalf("got err %v, want wrapped composer error", err)
	}
}

type errComposer struct{ err error }

func (e errComposer) LineItemsOf(context.Context, string) ([]LineItem, error) {
	return nil, e.err
}
