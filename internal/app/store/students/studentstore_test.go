package studentstore_test

import (
	"errors"
	"testing"

	studentstore "github.com/mziyad24/academicrecords/internal/app/store/students"
	"github.com/mziyad24/academicrecords/internal/app/system/indexes"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"github.com/mziyad24/academicrecords/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newStudent(fname, email, dept string, gpa *float64) models.Student {
	return models.Student{
		FirstName: fname,
		LastName:  "Test",
		Email:     email,
		Level:     3,
		GPA:       gpa,
		Department: models.Department{
			Faculty:        "Computer Science",
			DepartmentName: dept,
		},
	}
}

func TestStore_Create_NormalizesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st := newStudent("  Ziyad ", "  MZiyad154@Gmail.com ", " is ", testutil.GPA(3.2))
	created, err := store.Create(ctx, st)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "mziyad154@gmail.com" {
		t.Errorf("email = %q, want lower-cased and trimmed", created.Email)
	}
	if created.FirstName != "Ziyad" {
		t.Errorf("fname = %q, want trimmed", created.FirstName)
	}
	if created.Department.DepartmentName != "IS" {
		t.Errorf("department = %q, want IS", created.Department.DepartmentName)
	}

	got, err := store.GetByEmail(ctx, "MZIYAD154@gmail.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %v, want %v", got.ID, created.ID)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name string
		mut  func(*models.Student)
	}{
		{"empty email", func(s *models.Student) { s.Email = "   " }},
		{"zero level", func(s *models.Student) { s.Level = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := newStudent("A", "a@example.com", "CS", nil)
			tc.mut(&st)
			if _, err := store.Create(ctx, st); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := studentstore.New(db)

	if _, err := store.Create(ctx, newStudent("A", "dup@example.com", "CS", nil)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, newStudent("B", "DUP@example.com", "IS", nil))
	if !errors.Is(err, studentstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_InsertMany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ids, err := store.InsertMany(ctx, []models.Student{
		newStudent("A", "a@example.com", "CS", testutil.GPA(3.0)),
		newStudent("B", "b@example.com", "IS", testutil.GPA(3.1)),
	})
	if err != nil {
		t.Fatalf("InsertMany failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}

	st, err := store.GetByID(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if st.Email != "b@example.com" {
		t.Errorf("ids out of order: second id resolves to %q", st.Email)
	}

	empty, err := store.InsertMany(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("InsertMany(nil) = %v, %v; want empty, nil", empty, err)
	}
}

func TestStore_ListByDepartment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "Low", "IS", "low@example.com", "IS", testutil.GPA(3.0))
	fixtures.CreateStudent(ctx, "High", "IS", "high@example.com", "IS", testutil.GPA(3.3))
	fixtures.CreateStudent(ctx, "Other", "CS", "cs@example.com", "CS", testutil.GPA(3.9))

	got, err := store.ListByDepartment(ctx, "is")
	if err != nil {
		t.Fatalf("ListByDepartment failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d students, want 2", len(got))
	}
	if got[0].FirstName != "High" || got[1].FirstName != "Low" {
		t.Errorf("order = [%s %s], want [High Low]", got[0].FirstName, got[1].FirstName)
	}

	none, err := store.ListByDepartment(ctx, "MATH")
	if err != nil {
		t.Fatalf("ListByDepartment failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", none)
	}
}

func TestStore_ListAboveGPA_Strict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateStudent(ctx, "Equal", "X", "eq@example.com", "CS", testutil.GPA(3.5))
	fixtures.CreateStudent(ctx, "Above", "X", "above@example.com", "CS", testutil.GPA(3.6))
	fixtures.CreateStudent(ctx, "Best", "X", "best@example.com", "CS", testutil.GPA(3.8))
	fixtures.CreateStudent(ctx, "NoGPA", "X", "nogpa@example.com", "CS", nil)

	got, err := store.ListAboveGPA(ctx, 3.5)
	if err != nil {
		t.Fatalf("ListAboveGPA failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d students, want 2", len(got))
	}
	if got[0].FirstName != "Best" || got[1].FirstName != "Above" {
		t.Errorf("order = [%s %s], want [Best Above]", got[0].FirstName, got[1].FirstName)
	}
}

func TestStore_UpdateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := studentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	fixtures.CreateStudent(ctx, "A", "X", "old@example.com", "CS", nil)
	fixtures.CreateStudent(ctx, "B", "X", "taken@example.com", "CS", nil)

	t.Run("updates", func(t *testing.T) {
		out, err := store.UpdateEmail(ctx, "old@example.com", "New@Example.com")
		if err != nil {
			t.Fatalf("UpdateEmail failed: %v", err)
		}
		if out.Matched != 1 || out.Modified != 1 {
			t.Errorf("outcome = %+v, want 1/1", out)
		}
		if _, err := store.GetByEmail(ctx, "new@example.com"); err != nil {
			t.Errorf("new email not found: %v", err)
		}
	})

	t.Run("no match is not an error", func(t *testing.T) {
		out, err := store.UpdateEmail(ctx, "missing@example.com", "x@example.com")
		if err != nil {
			t.Fatalf("UpdateEmail failed: %v", err)
		}
		if out.Matched != 0 || out.Modified != 0 {
			t.Errorf("outcome = %+v, want 0/0", out)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := store.UpdateEmail(ctx, "new@example.com", "taken@example.com")
		if !errors.Is(err, studentstore.ErrDuplicateEmail) {
			t.Errorf("expected ErrDuplicateEmail, got %v", err)
		}
	})
}

func TestStore_FindSampleByLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := fixtures.CreateStudentAtLevel(ctx, "First", "X", "first@example.com", 3)
	fixtures.CreateStudentAtLevel(ctx, "Second", "X", "second@example.com", 3)
	fixtures.CreateStudentAtLevel(ctx, "Senior", "X", "senior@example.com", 4)

	st, found, err := store.FindSampleByLevel(ctx, 3)
	if err != nil {
		t.Fatalf("FindSampleByLevel failed: %v", err)
	}
	if !found {
		t.Fatal("expected a level 3 student")
	}
	if st.ID != first.ID {
		t.Errorf("sample = %s, want First", st.FirstName)
	}

	_, found, err = store.FindSampleByLevel(ctx, 9)
	if err != nil {
		t.Fatalf("FindSampleByLevel failed: %v", err)
	}
	if found {
		t.Error("expected no level 9 student")
	}
}

func TestStore_GetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEmail(ctx, "nobody@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}
