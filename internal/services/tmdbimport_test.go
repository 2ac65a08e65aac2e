package services

import (
	"context"
	"errors"
	"testing"
)

func TestTMDbOperationsWithoutClient(t *testing.T) {
	svc := NewTMDbImportService(nil, testLogger(t), &fakeMovieRepo{}, nil, nil)

	if _, err := svc.SearchCatalog(context.Background(), "dune", 1); !errors.Is(err, ErrTMDbNotConfigured) {
		t.Fatalf("SearchCatalog err = %v, want ErrTMDbNotConfigured", err)
	}
	if _, err := svc.ImportMovie(context.Background(), 42); !errors.Is(err, ErrTMDbNotConfigured) {
		t.Fatalf("ImportMovie err = %v, want ErrTMDbNotConfigured", err)
	}
}
