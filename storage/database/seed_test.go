package database_test

import (
	"context"
	"testing"

	"github.com/trezcool/tutorsync/core/lesson"
	"github.com/trezcool/tutorsync/core/todo"
	"github.com/trezcool/tutorsync/storage/database"
	sqliterepos "github.com/trezcool/tutorsync/storage/database/sqlite"
	testutil "github.com/trezcool/tutorsync/tests"
)

func TestSeedIfEmpty(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()

	stuRepo := sqliterepos.NewStudentRepository(db)
	lesRepo := sqliterepos.NewLessonRepository(db)
	todoRepo := sqliterepos.NewTodoRepository(db)

	seeded, err := database.SeedIfEmpty(ctx, db)
	if err != nil {
		t.Fatalf("SeedIfEmpty() failed: %v", err)
	}
	if !seeded {
		t.Fatal("SeedIfEmpty() = false on an empty store, want true")
	}

	students, err := stuRepo.QueryAllStudents(ctx)
	if err != nil {
		t.Fatalf("QueryAllStudents() failed: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("seeded %d students, want 2", len(students))
	}
	if students[0].Name != "Sarah Tan" || students[1].Name != "John Doe" {
		t.Errorf("seeded students = %s, %s", students[0].Name, students[1].Name)
	}

	lessons, err := lesRepo.QueryLessons(ctx, nil, nil)
	if err != nil {
		t.Fatalf("QueryLessons() failed: %v", err)
	}
	if len(lessons) != 2 {
		t.Errorf("seeded %d lessons, want 2", len(lessons))
	}
	for _, les := range lessons {
		if les.Status != lesson.StatusScheduled || les.PaymentStatus != lesson.PaymentUnpaid {
			t.Errorf("seeded lesson #%d = %s/%s, want scheduled/unpaid", les.ID, les.Status, les.PaymentStatus)
		}
	}

	todos, err := todoRepo.QueryTodos(ctx, &todo.QueryFilter{Pending: true})
	if err != nil {
		t.Fatalf("QueryTodos() failed: %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("seeded %d pending todos, want 2", len(todos))
	}

	// a second run must not touch the existing data
	seeded, err = database.SeedIfEmpty(ctx, db)
	if err != nil {
		t.Fatalf("SeedIfEmpty() failed: %v", err)
	}
	if seeded {
		t.Error("SeedIfEmpty() = true on a non-empty store, want false")
	}
	if cnt, _ := stuRepo.CountStudents(ctx); cnt != 2 {
		t.Errorf("second run changed student count to %d", cnt)
	}
}
