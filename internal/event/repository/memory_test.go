package repository

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository(Fixtures()...)
	ctx := context.Background()

	all, err := repo.List(ctx, "all")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []string
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	if diff := cmp.Diff([]string{"2", "3", "1"}, ids); diff != "" {
		t.Errorf("List(all) order mismatch (-want +got):\n%s", diff)
	}

	camps, _ := repo.List(ctx, "camp")
	if len(camps) != 1 || camps[0].Title != "Annual Blood Donation Camp 2024" {
		t.Errorf("List(camp) = %+v", camps)
	}
	if n, _ := repo.CountByStatus(ctx, "upcoming"); n != 3 {
		t.Errorf("CountByStatus(upcoming) = %d, want 3", n)
	}
}
