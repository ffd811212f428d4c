package student

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/eduplaybd/eduplay/core"
)

var (
	// errors
	ErrNotFound = errors.New("profile not found")
)

const avatarBucket = "avatars"

type (
	Repository interface {
		GetProfileByID(ctx context.Context, id string, exec ...core.DBExecutor) (Profile, error)
		UpsertProfile(ctx context.Context, profile Profile, exec ...core.DBExecutor) (Profile, error)
	}

	Service struct {
		repo  Repository
		files core.FileStore
	}
)

func NewService(repo Repository, files core.FileStore) *Service {
	return &Service{repo: repo, files: files}
}

func (svc *Service) Get(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfileByID(ctx, id)
}

// Update applies the student-editable fields onto the stored profile,
// creating it on first save.
func (svc *Service) Update(ctx context.Context, id string, up UpdateProfile) (Profile, error) {
	profile, err := svc.repo.GetProfileByID(ctx, id)
	if err != nil {
		if err != ErrNotFound {
			return Profile{}, err
		}
		profile = Profile{ID: id}
	}
	profile.Name = up.Name
	profile.Age = up.Age
	profile.Grade = up.Grade
	profile.Address = up.Address
	profile.Gender = up.Gender
	profile.Bio = up.Bio
	return svc.repo.UpsertProfile(ctx, profile)
}

// SaveAvatar stores the uploaded avatar under the user's folder in the
// avatars bucket, records its public URL on the profile and returns it.
func (svc *Service) SaveAvatar(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	fp := path.Join(id, path.Base(filename))
	if err := svc.files.Save(ctx, avatarBucket, fp, r, true /* upsert */); err != nil {
		return "", err
	}
	url := svc.files.PublicURL(avatarBucket, fp)

	profile, err := svc.repo.GetProfileByID(ctx, id)
	if err != nil {
		if err != ErrNotFound {
			return "", err
		}
		profile = Profile{ID: id}
	}
	profile.AvatarURL = url
	if _, err = svc.repo.UpsertProfile(ctx, profile); err != nil {
		return "", err
	}
	return url, nil
}
