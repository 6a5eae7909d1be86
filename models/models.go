package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	UserID    string `bson:"userid" json:"id"`
	Email     string `bson:"email" json:"email"`
	Username  string `bson:"username" json:"username"`
	FirstName string `bson:"firstName" json:"first_name"`
	LastName  string `bson:"lastName" json:"last_name"`
	Password  string `bson:"password" json:"-"`
}

type Tag struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Color string             `bson:"color" json:"color"`
	Slug  string             `bson:"slug" json:"slug"`
}

// Ingredient is flat reference data. Names are not unique across the
// catalog: two entries may share a name with different units.
type Ingredient struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	MeasurementUnit string             `bson:"measurementUnit" json:"measurement_unit"`
}

// LineItem pairs an ingredient with its amount inside one recipe. Line
// items are embedded in the recipe document and replaced wholesale on
// every recipe update.
type LineItem struct {
	IngredientID primitive.ObjectID `bson:"ingredientId" json:"id"`
	Amount       int                `bson:"amount" json:"amount"`
}

type Recipe struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID    string               `bson:"authorId" json:"-"`
	Name        string               `bson:"name" json:"name"`
	Image       string               `bson:"image" json:"image"`
	Text        string               `bson:"text" json:"text"`
	CookingTime int                  `bson:"cookingTime" json:"cooking_time"`
	TagIDs      []primitive.ObjectID `bson:"tagIds" json:"-"`
	Ingredients []LineItem           `bson:"ingredients" json:"-"`
	CreatedAt   int64                `bson:"createdAt" json:"-"`
}

// RecipeCard is the short representation returned by the cart, favorite
// and subscription endpoints.
type RecipeCard struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"image" json:"image"`
	CookingTime int                `bson:"cookingTime" json:"cooking_time"`
}

// CartEntry marks one recipe for inclusion in a user's shopping list.
// At most one entry exists per (user, recipe).
type CartEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID   string             `bson:"userId" json:"user"`
	RecipeID primitive.ObjectID `bson:"recipeId" json:"recipe"`
}

// FavoriteEntry is an independent membership set with the same shape
// and uniqueness invariant as CartEntry.
type FavoriteEntry struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID   string             `bson:"userId" json:"user"`
	RecipeID primitive.ObjectID `bson:"recipeId" json:"recipe"`
}

type Subscription struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID   string             `bson:"userId" json:"user"`
	AuthorID string             `bson:"authorId" json:"author"`
}
