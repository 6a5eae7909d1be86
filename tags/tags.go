package tags

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"foodgram/db"
	"foodgram/models"
	"foodgram/rdx"
	"foodgram/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const tagCacheKey = "tags_all"

// GetTags lists every tag. The set is tiny and read-mostly, so the
// JSON blob is cached in redis for 2 hours.
func GetTags(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := context.TODO()

	if val, err := rdx.Conn.Get(ctx, tagCacheKey).Result(); err == nil && val != "" {
		var cached []models.Tag
		if json.Unmarshal([]byte(val), &cached) == nil {
			utils.RespondWithJSON(w, http.StatusOK, cached)
			return
		}
	}

	cursor, err := db.TagCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}
	defer cursor.Close(ctx)

	var tags []models.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode tags")
		return
	}
	if len(tags) == 0 {
		tags = []models.Tag{}
	}

	if jsonBytes, err := json.Marshal(tags); err == nil {
		_ = rdx.Conn.Set(ctx, tagCacheKey, jsonBytes, 2*time.Hour).Err()
	}

	utils.RespondWithJSON(w, http.StatusOK, tags)
}

func GetTag(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	var tag models.Tag
	if err := db.TagCollection.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&tag); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Tag not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, tag)
}
