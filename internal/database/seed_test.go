package database

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"protikar/internal/models"
	"protikar/internal/testutil"
)

func TestSeed(t *testing.T) {
	t.Run("fixture_counts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		if err := Seed(db); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		counts := map[string]int64{}
		for name, model := range map[string]any{
			"companies":  &models.Company{},
			"users":      &models.User{},
			"profiles":   &models.UserProfile{},
			"grievances": &models.Grievance{},
		} {
			var count int64
			if err := db.Model(model).Count(&count).Error; err != nil {
				t.Fatalf("count %s: %v", name, err)
			}
			counts[name] = count
		}

		want := map[string]int64{"companies": 2, "users": 5, "profiles": 2, "grievances": 2}
		for name, expected := range want {
			if counts[name] != expected {
				t.Errorf("expected %d %s, got %d", expected, name, counts[name])
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		if err := Seed(db); err != nil {
			t.Fatalf("first seed failed: %v", err)
		}
		if err := Seed(db); err != nil {
			t.Fatalf("second seed failed: %v", err)
		}

		var users int64
		db.Model(&models.User{}).Count(&users)
		if users != 5 {
			t.Errorf("expected 5 users after reseeding, got %d", users)
		}
	})

	t.Run("demo_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		if err := Seed(db); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		var alice models.User
		if err := db.First(&alice, "email = ?", "alice@example.com").Error; err != nil {
			t.Fatalf("alice not seeded: %v", err)
		}
		if alice.Role != models.RolePolicyholder {
			t.Errorf("expected alice to be a policyholder, got %s", alice.Role)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(alice.Password), []byte(DemoPassword)); err != nil {
			t.Error("demo password does not match stored hash")
		}
	})

	t.Run("grievance_fixture_shape", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		if err := Seed(db); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		var alice models.User
		if err := db.First(&alice, "email = ?", "alice@example.com").Error; err != nil {
			t.Fatalf("alice not seeded: %v", err)
		}

		var grievance models.Grievance
		err := db.Preload("Submitter").Preload("AssignedCompany").
			First(&grievance, "submitter_id = ?", alice.ID).Error
		if err != nil {
			t.Fatalf("alice's grievance not seeded: %v", err)
		}

		if grievance.Title != "Claim Settlement Delay" {
			t.Errorf("unexpected title %q", grievance.Title)
		}
		if grievance.Status != models.StatusUnderReview {
			t.Errorf("expected under_review, got %s", grievance.Status)
		}
		if grievance.Priority != models.PriorityHigh {
			t.Errorf("expected high priority, got %s", grievance.Priority)
		}
		if grievance.PolicyNumber != "POL-2023-001" {
			t.Errorf("unexpected policy number %q", grievance.PolicyNumber)
		}
		if grievance.AssignedCompany == nil || grievance.AssignedCompany.Name != "Dhaka Insurance Limited" {
			t.Error("expected grievance assigned to Dhaka Insurance Limited")
		}
	})
}
