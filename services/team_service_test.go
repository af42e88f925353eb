package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khelodev/khelo-server/models"
	"github.com/khelodev/khelo-server/storage"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(ctx context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newTeamFixture(uploader storage.FileUploader) (*fakeTeamRepo, *fakePlayerRepo, TeamService) {
	teamRepo := newFakeTeamRepo()
	playerRepo := newFakePlayerRepo()
	svc := NewTeamService(teamRepo, playerRepo, uploader, testLogger())
	return teamRepo, playerRepo, svc
}

func TestUploadLogoWithoutStorageConfigured(t *testing.T) {
	teamRepo, _, svc := newTeamFixture(nil)
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})

	_, err := svc.UploadLogo(context.Background(), team.ID, "image/png", strings.NewReader("png-bytes"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDeleteTeamWithoutStorageConfigured(t *testing.T) {
	teamRepo, _, svc := newTeamFixture(nil)
	logoKey := "teams/1/logo_1.png"
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7, LogoKey: &logoKey})

	require.NoError(t, svc.Delete(context.Background(), team.ID))

	_, err := teamRepo.GetByID(context.Background(), team.ID)
	assert.Error(t, err)
}

func TestUploadLogoReplacesPreviousObject(t *testing.T) {
	uploader := &fakeUploader{}
	teamRepo, _, svc := newTeamFixture(uploader)
	oldKey := "teams/1/logo_old.png"
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7, LogoKey: &oldKey})

	updated, err := svc.UploadLogo(context.Background(), team.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, updated.LogoKey)
	assert.NotEqual(t, oldKey, *updated.LogoKey)
	require.NotNil(t, updated.LogoURL)
	assert.Contains(t, *updated.LogoURL, *updated.LogoKey)

	require.Len(t, uploader.uploaded, 1)
	assert.Equal(t, []string{oldKey}, uploader.deleted)
}

func TestUploadLogoRejectsNonImageContentType(t *testing.T) {
	teamRepo, _, svc := newTeamFixture(&fakeUploader{})
	team := teamRepo.add(&models.Team{Name: "Lions", ManagerID: 7})

	_, err := svc.UploadLogo(context.Background(), team.ID, "application/pdf", strings.NewReader("not-an-image"))
	assert.ErrorIs(t, err, ErrValidationFailed)
}
