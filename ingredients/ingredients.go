package ingredients

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"foodgram/db"
	"foodgram/models"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetIngredients lists the catalog, optionally narrowed with a
// case-insensitive name-contains filter (?name=...).
func GetIngredients(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := context.TODO()
	query := bson.M{}

	if name := r.URL.Query().Get("name"); name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(strings.ToLower(name)), "$options": "i"}
	}

	cursor, err := db.IngredientCollection.Find(ctx, query)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch ingredients")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Ingredient
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode ingredients")
		return
	}
	if len(list) == 0 {
		list = []models.Ingredient{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetIngredient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ingredient ID")
		return
	}

	var ingredient models.Ingredient
	if err := db.IngredientCollection.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&ingredient); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Ingredient not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ingredient)
}

type seedEntry struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ParseSeed reads a catalog seed file: a JSON array of
// {"name": ..., "measurement_unit": ...} objects. Blank names are
// skipped; duplicate (name, unit) pairs collapse to one entry.
func ParseSeed(data []byte) ([]models.Ingredient, error) {
	var entries []seedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	seen := make(map[seedEntry]bool)
	var out []models.Ingredient
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		e.MeasurementUnit = strings.TrimSpace(e.MeasurementUnit)
		if e.Name == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, models.Ingredient{Name: e.Name, MeasurementUnit: e.MeasurementUnit})
	}
	return out, nil
}

// Seed upserts the parsed catalog. Names stay non-unique on purpose:
// the same name may appear with several units, matching the raw data.
func Seed(ctx context.Context, data []byte) (int, error) {
	list, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, ing := range list {
		filter := bson.M{"name": ing.Name, "measurementUnit": ing.MeasurementUnit}
		res, err := db.IngredientCollection.UpdateOne(ctx, filter,
			bson.M{"$setOnInsert": filter},
			options.Update().SetUpsert(true))
		if err != nil {
			return inserted, err
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}
