package coursestore_test

import (
	"errors"
	"testing"

	coursestore "github.com/mziyad24/academicrecords/internal/app/store/courses"
	"github.com/mziyad24/academicrecords/internal/app/system/indexes"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"github.com/mziyad24/academicrecords/internal/testutil"
)

func TestStore_CreateAndGetByCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Course{Name: " Compilers ", Code: "cs408", DepartmentName: "cs"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Code != "CS408" || created.Name != "Compilers" || created.DepartmentName != "CS" {
		t.Errorf("fields not normalized: %+v", created)
	}

	got, err := store.GetByCode(ctx, "Cs408")
	if err != nil {
		t.Fatalf("GetByCode failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByCode returned %v, want %v", got.ID, created.ID)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Course{Name: "", Code: "X1"}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := store.Create(ctx, models.Course{Name: "X", Code: " "}); err == nil {
		t.Error("expected error for empty code")
	}
}

func TestStore_InsertMany_DuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := coursestore.New(db)

	_, err := store.InsertMany(ctx, []models.Course{
		{Name: "SOA", Code: "IS434", DepartmentName: "IS"},
		{Name: "SOA again", Code: "is434", DepartmentName: "IS"},
	})
	if !errors.Is(err, coursestore.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coursestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", empty)
	}

	if _, err := store.InsertMany(ctx, []models.Course{
		{Name: "SOA", Code: "IS434", DepartmentName: "IS"},
		{Name: "Algorithms", Code: "CS235", DepartmentName: "CS"},
	}); err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].Code != "CS235" {
		t.Errorf("List = %+v, want CS235 first", got)
	}
}
