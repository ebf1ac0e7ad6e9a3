package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaObject is the metadata record for one uploaded file, stored in
// MongoDB. The bytes themselves live in MinIO under ObjectKey, which is
// always prefixed with the owner's user id.
type MediaObject struct {
	ID          primitive.ObjectID `json:"id"           bson:"_id,omitempty"`
	OwnerID     string             `json:"user_id"      bson:"user_id"`
	FileName    string             `json:"file_name"    bson:"file_name"`
	Extension   string             `json:"extension"    bson:"extension"`
	ObjectKey   string             `json:"object_key"   bson:"object_key"`
	ContentType string             `json:"content_type" bson:"content_type"`
	Size        int64              `json:"size"         bson:"size"`
	CreatedAt   time.Time          `json:"created_at"   bson:"created_at"`
}

// MediaURL is one entry in the GET /media/{userId} response.
type MediaURL struct {
	URL string `json:"url"`
}

// DeleteMediaRequest is the JSON body for DELETE /media/delete.
type DeleteMediaRequest struct {
	URIs []string `json:"uris"`
}
