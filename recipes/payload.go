package recipes

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amount and cooking time share the catalog's validator bounds.
const (
	minAmount      = 1
	maxAmount      = 999
	minCookingTime = 1
	maxCookingTime = 999
)

type lineItemPayload struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

// recipePayload is the create/update body: tags and line items are
// always supplied in full and replace the previous sets wholesale.
type recipePayload struct {
	Tags        []string          `json:"tags"`
	Ingredients []lineItemPayload `json:"ingredients"`
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Text        string            `json:"text"`
	CookingTime int               `json:"cooking_time"`
}

var errValidation = errors.New("validation failed")

func (p *recipePayload) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", errValidation)
	}
	if p.Text == "" {
		return fmt.Errorf("%w: text is required", errValidation)
	}
	if p.CookingTime < minCookingTime || p.CookingTime > maxCookingTime {
		return fmt.Errorf("%w: cooking_time must be between %d and %d", errValidation, minCookingTime, maxCookingTime)
	}
	if len(p.Ingredients) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", errValidation)
	}
	for _, item := range p.Ingredients {
		if _, err := primitive.ObjectIDFromHex(item.ID); err != nil {
			return fmt.Errorf("%w: invalid ingredient id %q", errValidation, item.ID)
		}
		if item.Amount < minAmount || item.Amount > maxAmount {
			return fmt.Errorf("%w: amount must be between %d and %d", errValidation, minAmount, maxAmount)
		}
	}
	for _, tag := range p.Tags {
		if _, err := primitive.ObjectIDFromHex(tag); err != nil {
			return fmt.Errorf("%w: invalid tag id %q", errValidation, tag)
		}
	}
	return nil
}

func (p *recipePayload) tagIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.Tags))
	for _, tag := range p.Tags {
		id, _ := primitive.ObjectIDFromHex(tag)
		ids = append(ids, id)
	}
	return ids
}
