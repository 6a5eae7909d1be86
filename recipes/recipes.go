package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"foodgram/db"
	"foodgram/models"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const uploadFolder = "./static/uploads"

// Get all recipes
func GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := context.TODO()
	userID := utils.GetUserIDFromContext(r.Context())
	query := bson.M{}

	// --- Parse query params ---
	search := r.URL.Query().Get("search")
	author := r.URL.Query().Get("author")
	ingredient := r.URL.Query().Get("ingredient")
	tagSlugs := r.URL.Query()["tags"]
	sortParam := r.URL.Query().Get("sort")
	offsetStr := r.URL.Query().Get("offset")
	limitStr := r.URL.Query().Get("limit")

	// --- Search by name or text (case-insensitive) ---
	if search != "" {
		pattern := regexp.QuoteMeta(search)
		query["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"text": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if author != "" {
		query["authorId"] = author
	}

	// --- Filter by tag slugs ---
	if len(tagSlugs) > 0 {
		tagIDs, err := tagIDsBySlugs(ctx, tagSlugs)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve tags")
			return
		}
		query["tagIds"] = bson.M{"$in": tagIDs}
	}

	// --- Filter by ingredient name ---
	if ingredient != "" {
		ingIDs, err := ingredientIDsByName(ctx, ingredient)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve ingredients")
			return
		}
		query["ingredients.ingredientId"] = bson.M{"$in": ingIDs}
	}

	// --- Membership filters need an authenticated user. Both filters
	// together mean the recipe must be in both sets. ---
	var memberSets [][]primitive.ObjectID
	if r.URL.Query().Get("is_favorited") == "1" && userID != "" {
		ids, err := memberRecipeIDs(ctx, db.FavoritesCollection, userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve favorites")
			return
		}
		memberSets = append(memberSets, ids)
	}
	if r.URL.Query().Get("is_in_shopping_cart") == "1" && userID != "" {
		ids, err := memberRecipeIDs(ctx, db.CartCollection, userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to resolve cart")
			return
		}
		memberSets = append(memberSets, ids)
	}
	if len(memberSets) > 0 {
		query["_id"] = bson.M{"$in": intersectIDs(memberSets...)}
	}

	// --- Pagination ---
	offset, err := strconv.Atoi(offsetStr)
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 10
	}

	// --- Sorting ---
	sort := bson.D{{Key: "createdAt", Value: -1}} // default: newest
	if sortParam == "oldest" {
		sort = bson.D{{Key: "createdAt", Value: 1}}
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := db.RecipeCollection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recipes")
		return
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode recipes")
		return
	}

	views := make([]recipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := buildView(ctx, recipe, userID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recipe")
			return
		}
		views = append(views, view)
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

// Get one recipe
func GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	var recipe models.Recipe
	if err := db.RecipeCollection.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&recipe); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	view, err := buildView(context.TODO(), recipe, utils.GetUserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recipe")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// Create. Tags and line items land in the same document insert, so the
// recipe appears with its full composition or not at all.
func CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := payload.validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Image == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "image is required")
		return
	}

	ctx := context.TODO()
	lineItems, err := checkReferences(ctx, &payload)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	imagePath, err := utils.SaveBase64Image(payload.Image, uploadFolder)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to save image")
		return
	}

	recipe := models.Recipe{
		AuthorID:    userID,
		Name:        payload.Name,
		Image:       imagePath,
		Text:        payload.Text,
		CookingTime: payload.CookingTime,
		TagIDs:      payload.tagIDs(),
		Ingredients: lineItems,
		CreatedAt:   time.Now().Unix(),
	}

	result, err := db.RecipeCollection.InsertOne(ctx, recipe)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB insert failed")
		return
	}
	recipe.ID = result.InsertedID.(primitive.ObjectID)

	view, err := buildView(ctx, recipe, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view)
}

// Update replaces tags and line items wholesale, never patches them.
func UpdateRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	ctx := context.TODO()
	var existing models.Recipe
	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if existing.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the author can edit this recipe")
		return
	}

	var payload recipePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := payload.validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	lineItems, err := checkReferences(ctx, &payload)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	image := existing.Image
	if payload.Image != "" {
		if image, err = utils.SaveBase64Image(payload.Image, uploadFolder); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Failed to save image")
			return
		}
	}

	updates := bson.M{
		"name":        payload.Name,
		"image":       image,
		"text":        payload.Text,
		"cookingTime": payload.CookingTime,
		"tagIds":      payload.tagIDs(),
		"ingredients": lineItems,
	}

	if _, err := db.RecipeCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB update failed")
		return
	}

	existing.Name = payload.Name
	existing.Image = image
	existing.Text = payload.Text
	existing.CookingTime = payload.CookingTime
	existing.TagIDs = payload.tagIDs()
	existing.Ingredients = lineItems

	view, err := buildView(ctx, existing, userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// Delete cascades the membership sets so no cart or favorite entry is
// left dangling.
func DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid recipe ID")
		return
	}

	ctx := context.TODO()
	var existing models.Recipe
	if err := db.RecipeCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if existing.AuthorID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the author can delete this recipe")
		return
	}

	if _, err := db.RecipeCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "DB delete failed")
		return
	}
	// A failed cascade leaves dangling membership entries; log it so the
	// later 409 on download can be traced back.
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"recipeId": id}); err != nil {
		log.Printf("cart cascade for recipe %s: %v", id.Hex(), err)
	}
	if _, err := db.FavoritesCollection.DeleteMany(ctx, bson.M{"recipeId": id}); err != nil {
		log.Printf("favorites cascade for recipe %s: %v", id.Hex(), err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

// checkReferences verifies every tag and ingredient id exists and
// returns the embedded line item set.
func checkReferences(ctx context.Context, payload *recipePayload) ([]models.LineItem, error) {
	tagIDs := payload.tagIDs()
	if len(tagIDs) > 0 {
		n, err := db.TagCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": tagIDs}})
		if err != nil {
			return nil, err
		}
		if n != int64(len(dedupe(tagIDs))) {
			return nil, errors.New("one or more tags do not exist")
		}
	}

	items := make([]models.LineItem, 0, len(payload.Ingredients))
	ingIDs := make([]primitive.ObjectID, 0, len(payload.Ingredients))
	for _, item := range payload.Ingredients {
		id, _ := primitive.ObjectIDFromHex(item.ID)
		ingIDs = append(ingIDs, id)
		items = append(items, models.LineItem{IngredientID: id, Amount: item.Amount})
	}

	n, err := db.IngredientCollection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ingIDs}})
	if err != nil {
		return nil, err
	}
	if n != int64(len(dedupe(ingIDs))) {
		return nil, errors.New("one or more ingredients do not exist")
	}

	return items, nil
}

// intersectIDs keeps the ids present in every set, in the order of the
// first one. The result is never nil so an empty intersection still
// marshals as a $in list that matches nothing.
func intersectIDs(sets ...[]primitive.ObjectID) []primitive.ObjectID {
	out := []primitive.ObjectID{}
	if len(sets) == 0 {
		return out
	}
	out = append(out, sets[0]...)
	for _, set := range sets[1:] {
		seen := make(map[primitive.ObjectID]bool, len(set))
		for _, id := range set {
			seen[id] = true
		}
		kept := out[:0]
		for _, id := range out {
			if seen[id] {
				kept = append(kept, id)
			}
		}
		out = kept
	}
	return out
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	var out []primitive.ObjectID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func tagIDsBySlugs(ctx context.Context, slugs []string) ([]primitive.ObjectID, error) {
	cursor, err := db.TagCollection.Find(ctx, bson.M{"slug": bson.M{"$in": slugs}})
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func ingredientIDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error) {
	cursor, err := db.IngredientCollection.Find(ctx, bson.M{
		"name": bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"},
	})
	if err != nil {
		return nil, err
	}
	var list []models.Ingredient
	if err := cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, ing := range list {
		ids = append(ids, ing.ID)
	}
	return ids, nil
}

// memberRecipeIDs returns the recipe ids of one user's membership set
// (cart or favorites).
func memberRecipeIDs(ctx context.Context, coll *mongo.Collection, userID string) ([]primitive.ObjectID, error) {
	cursor, err := coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var entries []models.CartEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.RecipeID)
	}
	return ids, nil
}
