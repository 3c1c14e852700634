package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseMedia stores metadata about a demonstration file (video or image)
// attached to an Exercise. The actual file resides in S3.
type ExerciseMedia struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`   // Link back to the exercise
	UploadedBy  string             `bson:"uploadedBy" json:"uploadedBy"`   // Token subject of the uploader
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`           // The unique key in the S3 bucket - internal use
	FileName    string             `bson:"fileName" json:"fileName"`       // Original filename provided by the uploader
	ContentType string             `bson:"contentType" json:"contentType"` // MIME type (e.g., "video/mp4")
	Size        int64              `bson:"size" json:"size"`               // File size in bytes
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
