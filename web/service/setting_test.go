package service

import "testing"

func TestSettingDefaults(t *testing.T) {
	setupDB(t)
	s := SettingService{}

	port, err := s.GetPort()
	if err != nil {
		t.Fatal(err)
	}
	if port != 8080 {
		t.Errorf("default port = %d, want 8080", port)
	}

	basePath, err := s.GetBasePath()
	if err != nil {
		t.Fatal(err)
	}
	if basePath != "/" {
		t.Errorf("default base path = %q, want /", basePath)
	}

	siteName, err := s.GetSiteName()
	if err != nil {
		t.Fatal(err)
	}
	if siteName == "" {
		t.Error("default site name must not be empty")
	}
}

func TestSecretPersistsAcrossReads(t *testing.T) {
	setupDB(t)
	s := SettingService{}

	first, err := s.GetSecret()
	if err != nil {
		t.Fatal(err)
	}
	if first == "" {
		t.Fatal("secret must not be empty")
	}
	second, err := s.GetSecret()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("secret must be stable once generated")
	}
}

func TestUpdateAllSettingRoundtrip(t *testing.T) {
	setupDB(t)
	s := SettingService{}

	all, err := s.GetAllSetting()
	if err != nil {
		t.Fatal(err)
	}
	all.SiteName = "Test Portal"
	all.WebPort = 9000
	all.SessionMaxAge = 120
	if err := s.UpdateAllSetting(all); err != nil {
		t.Fatal(err)
	}

	siteName, _ := s.GetSiteName()
	if siteName != "Test Portal" {
		t.Errorf("site name = %q", siteName)
	}
	port, _ := s.GetPort()
	if port != 9000 {
		t.Errorf("port = %d", port)
	}
	maxAge, _ := s.GetSessionMaxAge()
	if maxAge != 120 {
		t.Errorf("session max age = %d", maxAge)
	}
}

func TestResetSettings(t *testing.T) {
	setupDB(t)
	s := SettingService{}

	if err := s.SetPort(9999); err != nil {
		t.Fatal(err)
	}
	if err := s.ResetSettings(); err != nil {
		t.Fatal(err)
	}
	port, err := s.GetPort()
	if err != nil {
		t.Fatal(err)
	}
	if port != 8080 {
		t.Errorf("port after reset = %d, want 8080", port)
	}
}
