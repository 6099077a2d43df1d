package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/artifacts"
	"github.com/slidesmith/slidesmith/internal/db"
	"github.com/slidesmith/slidesmith/internal/db/repos"
)

func newTemplateService(t *testing.T) (*Template, artifacts.Store) {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	store, err := artifacts.NewFSStore(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	return NewTemplateService(repos.NewTemplateRepository(gormDB), store), store
}

func TestTemplateUploadAndDelete(t *testing.T) {
	service, store := newTemplateService(t)
	ctx := context.Background()

	template, err := service.Upload(ctx, "user-1", "corporate.pptx", "Corporate", "standard layout", []byte("pptx bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Corporate", template.Name)
	assert.NotEmpty(t, template.ArtifactLocator)

	// The file is really in the store
	data, err := store.Download(ctx, template.ArtifactLocator)
	require.NoError(t, err)
	assert.Equal(t, []byte("pptx bytes"), data)

	templates, err := service.List(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	require.NoError(t, service.Delete(ctx, "user-1", template.ID))

	// Both the record and the file are gone
	templates, err = service.List(ctx, "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, templates)
	_, err = store.Download(ctx, template.ArtifactLocator)
	assert.ErrorIs(t, err, artifacts.ErrNotFound)
}

func TestTemplateUploadDefaultsNameToFilename(t *testing.T) {
	service, _ := newTemplateService(t)

	template, err := service.Upload(context.Background(), "user-1", "minimal.pptx", "", "", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "minimal.pptx", template.Name)
}

func TestTemplateUploadRejectsOtherFormats(t *testing.T) {
	service, _ := newTemplateService(t)

	_, err := service.Upload(context.Background(), "user-1", "notes.pdf", "Notes", "", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedTemplate)
}

func TestTemplateDeleteMissing(t *testing.T) {
	service, _ := newTemplateService(t)

	err := service.Delete(context.Background(), "user-1", "missing-id")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
