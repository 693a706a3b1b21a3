package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StoredMedia identifies one stored binary asset
type StoredMedia struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// MediaStore abstracts the asset host ("store/delete binary media") so
// controllers never touch the storage backend directly.
type MediaStore interface {
	Store(file *multipart.FileHeader) (*StoredMedia, error)
	Delete(publicID string) error
}

// LocalMediaStore keeps uploads on local disk under BaseDir and serves them
// from the static /uploads route
type LocalMediaStore struct {
	BaseDir string
}

func NewLocalMediaStore(baseDir string) *LocalMediaStore {
	return &LocalMediaStore{BaseDir: baseDir}
}

func (s *LocalMediaStore) Store(file *multipart.FileHeader) (*StoredMedia, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return nil, err
	}

	// Unique object name so re-uploads never clobber each other
	publicID := uuid.NewString() + filepath.Ext(file.Filename)
	filePath := filepath.Join(s.BaseDir, publicID)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &StoredMedia{
		URL:      "/uploads/" + publicID,
		PublicID: publicID,
	}, nil
}

func (s *LocalMediaStore) Delete(publicID string) error {
	if publicID == "" {
		return nil
	}
	path := filepath.Join(s.BaseDir, filepath.Base(publicID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete media %s: %w", publicID, err)
	}
	return nil
}
