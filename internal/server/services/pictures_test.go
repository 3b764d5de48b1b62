package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mkalvans/userhub/internal/common"
)

func TestPicturePut_RejectsEmptyData(t *testing.T) {
	s := NewPictureService(&fakePictureStore{})

	err := s.Put(context.Background(), 7, nil, "png")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestPicturePut_RejectsMissingContentType(t *testing.T) {
	s := NewPictureService(&fakePictureStore{})

	err := s.Put(context.Background(), 7, []byte{1}, "")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestPicturePut_ForwardsToStore(t *testing.T) {
	store := &fakePictureStore{}
	s := NewPictureService(store)

	if err := s.Put(context.Background(), 7, []byte{1, 2}, "png"); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if store.putIn == nil || store.putIn.UserID != 7 || store.putIn.ContentType != "png" {
		t.Fatalf("unexpected stored picture: %+v", store.putIn)
	}
}

func TestPicturePut_MissingUserIntegrity(t *testing.T) {
	s := NewPictureService(&fakePictureStore{putErr: common.ErrIntegrity})

	err := s.Put(context.Background(), 404, []byte{1}, "png")
	if !errors.Is(err, common.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}

func TestPictureGet_NotFoundPassthrough(t *testing.T) {
	s := NewPictureService(&fakePictureStore{getErr: common.ErrNotFound})

	_, err := s.Get(context.Background(), 404)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPictureGet_Success(t *testing.T) {
	s := NewPictureService(&fakePictureStore{})

	got, err := s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.UserID != 7 || got.ContentType != "png" {
		t.Fatalf("unexpected picture: %+v", got)
	}
}

func TestPictureDelete_NotFound(t *testing.T) {
	s := NewPictureService(&fakePictureStore{deleteErr: common.ErrNotFound})

	if err := s.Delete(context.Background(), 404); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPictureDelete_ErrorWrapped(t *testing.T) {
	s := NewPictureService(&fakePictureStore{deleteErr: errBoom{}})

	if err := s.Delete(context.Background(), 7); !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}
