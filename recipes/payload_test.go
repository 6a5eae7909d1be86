package recipes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validPayload() recipePayload {
	return recipePayload{
		Tags:        []string{primitive.NewObjectID().Hex()},
		Ingredients: []lineItemPayload{{ID: primitive.NewObjectID().Hex(), Amount: 200}},
		Name:        "Pancakes",
		Image:       "data:image/png;base64,AAAA",
		Text:        "Mix and fry.",
		CookingTime: 20,
	}
}

func TestRecipePayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *recipePayload)
		wantErr bool
	}{
		{"valid", func(p *recipePayload) {}, false},
		{"no tags is allowed by validation", func(p *recipePayload) { p.Tags = nil }, false},
		{"missing name", func(p *recipePayload) { p.Name = "" }, true},
		{"missing text", func(p *recipePayload) { p.Text = "" }, true},
		{"cooking time zero", func(p *recipePayload) { p.CookingTime = 0 }, true},
		{"cooking time too large", func(p *recipePayload) { p.CookingTime = 1000 }, true},
		{"cooking time at upper bound", func(p *recipePayload) { p.CookingTime = 999 }, false},
		{"no ingredients", func(p *recipePayload) { p.Ingredients = nil }, true},
		{"amount zero", func(p *recipePayload) { p.Ingredients[0].Amount = 0 }, true},
		{"amount negative", func(p *recipePayload) { p.Ingredients[0].Amount = -5 }, true},
		{"amount too large", func(p *recipePayload) { p.Ingredients[0].Amount = 1000 }, true},
		{"amount at upper bound", func(p *recipePayload) { p.Ingredients[0].Amount = 999 }, false},
		{"bad ingredient id", func(p *recipePayload) { p.Ingredients[0].ID = "nope" }, true},
		{"bad tag id", func(p *recipePayload) { p.Tags = []string{"nope"} }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validPayload()
			tc.mutate(&p)
			err := p.validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
