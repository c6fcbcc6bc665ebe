package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const driveBucket = "drive"

type mongoFolder struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MongoDrive stores folders in the drive_folder collection and file contents
// in the "drive" GridFS bucket, with folderId and trashed in the metadata.
type MongoDrive struct {
	db      *mongo.Database
	folders *mongo.Collection
}

var _ Drive = (*MongoDrive)(nil)

func NewMongoDrive(db *mongo.Database) *MongoDrive {
	return &MongoDrive{db: db, folders: db.Collection("drive_folder")}
}

func (d *MongoDrive) bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(d.db, options.GridFSBucket().SetName(driveBucket))
}

func (d *MongoDrive) FindFolder(ctx context.Context, name string) (string, error) {
	var f mongoFolder
	err := d.folders.FindOne(ctx, bson.M{"name": name}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find folder %s: %w", name, err)
	}
	return f.ID, nil
}

// CreateFolder upserts by name so concurrent creators end up with one folder.
func (d *MongoDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	_, err := d.folders.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"_id": uuid.NewString(), "createdAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	return d.FindFolder(ctx, name)
}

func (d *MongoDrive) ListNames(ctx context.Context, folderID, prefix string) ([]string, error) {
	b, err := d.bucket()
	if err != nil {
		return nil, err
	}
	cur, err := b.FindContext(ctx, listFilter(folderID, prefix))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var f gridfs.File
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		names = append(names, f.Name)
	}
	return names, cur.Err()
}

func listFilter(folderID, prefix string) bson.M {
	return bson.M{
		"metadata.folderId": folderID,
		"metadata.trashed":  bson.M{"$ne": true},
		"filename":          bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
	}
}

func uploadMetadata(folderID, mimeType string) bson.M {
	return bson.M{
		"folderId":    folderID,
		"contentType": mimeType,
		"trashed":     false,
	}
}

func (d *MongoDrive) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (File, error) {
	b, err := d.bucket()
	if err != nil {
		return File{}, err
	}
	id := uuid.NewString()
	// GridFS uploads take no context; the deadline bounds the write instead.
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetWriteDeadline(deadline); err != nil {
			return File{}, err
		}
	}
	opts := options.GridFSUpload().SetMetadata(uploadMetadata(folderID, mimeType))
	if err := b.UploadFromStreamWithID(id, name, bytes.NewReader(content), opts); err != nil {
		return File{}, err
	}
	return File{
		ID:        id,
		FolderID:  folderID,
		Name:      name,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UTC(),
	}, nil
}
