package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	TagCollection           *mongo.Collection
	IngredientCollection    *mongo.Collection
	RecipeCollection        *mongo.Collection
	CartCollection          *mongo.Collection
	FavoritesCollection     *mongo.Collection
	SubscriptionsCollection *mongo.Collection

	Client *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	var err error
	clientOptions := options.Client().ApplyURI(mongoURI)
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	db := Client.Database("foodgram")
	UserCollection = db.Collection("users")
	TagCollection = db.Collection("tags")
	IngredientCollection = db.Collection("ingredients")
	RecipeCollection = db.Collection("recipes")
	CartCollection = db.Collection("cart")
	FavoritesCollection = db.Collection("favorites")
	SubscriptionsCollection = db.Collection("subscriptions")

	EnsureIndexes(db)
}

// EnsureIndexes creates the uniqueness indexes the membership sets rely
// on: at most one cart/favorite entry per (user, recipe) and one
// subscription per (user, author).
func EnsureIndexes(db *mongo.Database) {
	pair := func(a, b string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: a, Value: 1}, {Key: b, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	ctx := context.TODO()
	if _, err := db.Collection("cart").Indexes().CreateOne(ctx, pair("userId", "recipeId")); err != nil {
		log.Printf("cart index: %v", err)
	}
	if _, err := db.Collection("favorites").Indexes().CreateOne(ctx, pair("userId", "recipeId")); err != nil {
		log.Printf("favorites index: %v", err)
	}
	if _, err := db.Collection("subscriptions").Indexes().CreateOne(ctx, pair("userId", "authorId")); err != nil {
		log.Printf("subscriptions index: %v", err)
	}
}

func OptionsFindLatest(limit int64) *options.FindOptions {
	opts := options.Find()
	opts.SetSort(map[string]interface{}{"createdAt": -1})
	opts.SetLimit(limit)
	return opts
}
