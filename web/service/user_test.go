package service

import (
	"testing"

	"dtportal/database"
	"dtportal/database/model"
	"dtportal/util/crypto"
)

func TestSeedAdminIdempotent(t *testing.T) {
	setupDB(t)
	s := UserService{}

	result, err := s.SeedAdmin("admin", "admin@drivingtest.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if result != SeedCreated {
		t.Fatalf("first seed = %v, want %v", result, SeedCreated)
	}

	result, err = s.SeedAdmin("admin", "admin@drivingtest.com", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if result != SeedUpdated {
		t.Fatalf("second seed = %v, want %v", result, SeedUpdated)
	}

	var count int64
	if err := database.GetDB().Model(&model.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("admin row count = %d, want 1", count)
	}

	var admin model.User
	if err := database.GetDB().Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatal(err)
	}
	if admin.UserType != model.RoleAdmin {
		t.Errorf("user_type = %q, want admin", admin.UserType)
	}
	if admin.Status != model.StatusActive {
		t.Errorf("status = %q, want active", admin.Status)
	}
	if admin.Email != "admin@drivingtest.com" {
		t.Errorf("email = %q", admin.Email)
	}
	if admin.Password == "admin123" {
		t.Error("password stored in plaintext")
	}
	if !crypto.CheckPasswordHash(admin.Password, "admin123") {
		t.Error("stored hash does not match the seeded password")
	}
}

func TestSeedAdminUpdatesByEmail(t *testing.T) {
	setupDB(t)
	s := UserService{}

	if _, err := s.SeedAdmin("admin", "admin@drivingtest.com", "admin123"); err != nil {
		t.Fatal(err)
	}
	// Same email, different username: must update the existing row, not insert.
	if _, err := s.SeedAdmin("root", "admin@drivingtest.com", "newpass"); err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := database.GetDB().Model(&model.User{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("user count = %d, want 1", count)
	}
}

func TestCheckUser(t *testing.T) {
	setupDB(t)
	s := UserService{}

	if _, err := s.SeedAdmin("admin", "admin@drivingtest.com", "admin123"); err != nil {
		t.Fatal(err)
	}

	if user := s.CheckUser("admin", "admin123", ""); user == nil {
		t.Error("valid credentials rejected")
	}
	if user := s.CheckUser("admin", "wrong", ""); user != nil {
		t.Error("wrong password accepted")
	}
	if user := s.CheckUser("nobody", "admin123", ""); user != nil {
		t.Error("unknown user accepted")
	}
}

func TestCheckUserInactiveBlocked(t *testing.T) {
	setupDB(t)
	s := UserService{}

	user, err := s.RegisterStudent("bob", "bob@example.com", "Bob", "pass1234")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CheckUser("bob", "pass1234", ""); got == nil {
		t.Fatal("active student should log in")
	}

	if err := s.SetUserStatus(user.Id, model.StatusInactive); err != nil {
		t.Fatal(err)
	}
	if got := s.CheckUser("bob", "pass1234", ""); got != nil {
		t.Error("inactive student must not log in")
	}
}

func TestRegisterStudentDuplicate(t *testing.T) {
	setupDB(t)
	s := UserService{}

	if _, err := s.RegisterStudent("bob", "bob@example.com", "Bob", "pass1234"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RegisterStudent("bob", "other@example.com", "Bob", "pass1234"); err == nil {
		t.Error("duplicate username should fail")
	}
	if _, err := s.RegisterStudent("bobby", "bob@example.com", "Bob", "pass1234"); err == nil {
		t.Error("duplicate email should fail")
	}
}

func TestUpdateProfile(t *testing.T) {
	setupDB(t)
	s := UserService{}

	user, err := s.RegisterStudent("bob", "bob@example.com", "Bob", "pass1234")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateProfile(user.Id, "new@example.com", "Bobby", "newpass99"); err != nil {
		t.Fatal(err)
	}

	fresh, err := s.GetUser(user.Id)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Email != "new@example.com" || fresh.FullName != "Bobby" {
		t.Errorf("profile not updated: %+v", fresh)
	}
	if got := s.CheckUser("bob", "newpass99", ""); got == nil {
		t.Error("new password should log in")
	}
	if got := s.CheckUser("bob", "pass1234", ""); got != nil {
		t.Error("old password should no longer log in")
	}
}
