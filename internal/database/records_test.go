package database

import (
	"context"
	"encoding/json"
	"testing"
)

func TestPracticeArea_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		pa := &PracticeArea{Name: "Ticaret Hukuku", Description: strPtr("Şirketler ve sözleşmeler")}
		if err := s.CreatePracticeArea(ctx, pa); err != nil {
			t.Fatalf("CreatePracticeArea returned error: %v", err)
		}
		if pa.ID == 0 {
			t.Fatal("expected generated id")
		}

		got, err := s.GetPracticeArea(ctx, pa.ID)
		if err != nil || got == nil {
			t.Fatalf("GetPracticeArea = %v, %v", got, err)
		}
		if got.Name != pa.Name || got.Description == nil || *got.Description != *pa.Description {
			t.Fatalf("unexpected practice area %+v", got)
		}

		got.Description = nil
		found, err := s.UpdatePracticeArea(ctx, got)
		if err != nil || !found {
			t.Fatalf("UpdatePracticeArea = %v, %v", found, err)
		}

		got, _ = s.GetPracticeArea(ctx, pa.ID)
		if got.Description != nil {
			t.Fatalf("expected description cleared, got %q", *got.Description)
		}

		deleted, err := s.DeletePracticeArea(ctx, pa.ID)
		if err != nil || !deleted {
			t.Fatalf("DeletePracticeArea = %v, %v", deleted, err)
		}

		missing, err := s.GetPracticeArea(ctx, pa.ID)
		if err != nil || missing != nil {
			t.Fatalf("expected nil after delete, got %v, %v", missing, err)
		}

		found, err = s.UpdatePracticeArea(ctx, &PracticeArea{ID: pa.ID, Name: "x"})
		if err != nil || found {
			t.Fatalf("update of missing row = %v, %v", found, err)
		}
		deleted, err = s.DeletePracticeArea(ctx, pa.ID)
		if err != nil || deleted {
			t.Fatalf("delete of missing row = %v, %v", deleted, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}

func TestPracticeArea_UniqueName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		if err := s.CreatePracticeArea(ctx, &PracticeArea{Name: "Aile Hukuku"}); err != nil {
			return err
		}
		return s.CreatePracticeArea(ctx, &PracticeArea{Name: "Aile Hukuku"})
	})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if IsForeignKeyViolation(err) {
		t.Fatal("unique violation misreported as foreign key violation")
	}
}

func TestLawyer_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		return s.CreateLawyer(ctx, &LawyerProfile{Name: "Av. Ayşe Yılmaz", PracticeAreaID: int64Ptr(999)})
	})
	if !IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation for dangling reference, got %v", err)
	}

	var areaID int64
	err = db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		pa := &PracticeArea{Name: "Ceza Hukuku"}
		if err := s.CreatePracticeArea(ctx, pa); err != nil {
			return err
		}
		areaID = pa.ID
		return s.CreateLawyer(ctx, &LawyerProfile{Name: "Av. Mehmet Kaya", PracticeAreaID: &pa.ID})
	})
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	err = db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		_, err := s.DeletePracticeArea(ctx, areaID)
		return err
	})
	if !IsForeignKeyViolation(err) {
		t.Fatalf("expected foreign key violation when deleting referenced area, got %v", err)
	}
}

func TestLawyer_ListFilterAndJoin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		criminal := &PracticeArea{Name: "Ceza Hukuku"}
		family := &PracticeArea{Name: "Aile Hukuku"}
		for _, pa := range []*PracticeArea{criminal, family} {
			if err := s.CreatePracticeArea(ctx, pa); err != nil {
				return err
			}
		}

		lawyers := []*LawyerProfile{
			{Name: "Av. Ayşe Yılmaz", Bio: strPtr("Boşanma davaları"), PracticeAreaID: &family.ID, Languages: Languages{"tr", "en"}},
			{Name: "Av. Mehmet Kaya", Bio: strPtr("Ağır ceza"), PracticeAreaID: &criminal.ID},
			{Name: "Av. Zeynep Demir", PracticeAreaID: &criminal.ID},
		}
		for _, l := range lawyers {
			if err := s.CreateLawyer(ctx, l); err != nil {
				return err
			}
		}

		all, err := s.ListLawyers(ctx, LawyerFilter{})
		if err != nil {
			return err
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 lawyers, got %d", len(all))
		}
		for i, l := range all {
			if l.ID != lawyers[i].ID {
				t.Fatalf("list not in insertion order at %d: %d != %d", i, l.ID, lawyers[i].ID)
			}
		}
		if all[0].PracticeAreaName == nil || *all[0].PracticeAreaName != "Aile Hukuku" {
			t.Fatalf("expected joined practice area name, got %v", all[0].PracticeAreaName)
		}
		if len(all[0].Languages) != 2 || all[0].Languages[1] != "en" {
			t.Fatalf("unexpected languages %v", all[0].Languages)
		}
		if all[1].Languages == nil || len(all[1].Languages) != 0 {
			t.Fatalf("expected empty languages list, got %#v", all[1].Languages)
		}

		inCriminal, err := s.ListLawyers(ctx, LawyerFilter{PracticeAreaID: &criminal.ID})
		if err != nil {
			return err
		}
		if len(inCriminal) != 2 {
			t.Fatalf("expected 2 criminal lawyers, got %d", len(inCriminal))
		}

		searched, err := s.ListLawyers(ctx, LawyerFilter{Search: "  AĞIR "})
		if err != nil {
			return err
		}
		if len(searched) != 1 || searched[0].Name != "Av. Mehmet Kaya" {
			t.Fatalf("unexpected search result %+v", searched)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}

func TestLawyer_DependentsAndReferences(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		lawyer := &LawyerProfile{Name: "Av. Ayşe Yılmaz"}
		if err := s.CreateLawyer(ctx, lawyer); err != nil {
			return err
		}
		if err := s.CreateCaseOutcome(ctx, &CaseOutcome{Title: "Beraat", LawyerID: &lawyer.ID}); err != nil {
			return err
		}
		if err := s.CreateTestimonial(ctx, &Testimonial{ClientName: "Ali", Message: "Teşekkürler", LawyerID: &lawyer.ID}); err != nil {
			return err
		}

		n, err := s.ClearLawyerReferences(ctx, lawyer.ID)
		if err != nil || n != 2 {
			t.Fatalf("ClearLawyerReferences = %d, %v", n, err)
		}
		outcomes, _ := s.ListCaseOutcomes(ctx)
		if outcomes[0].LawyerID != nil {
			t.Fatal("expected lawyer_id cleared")
		}

		if err := s.CreateTestimonial(ctx, &Testimonial{ClientName: "Veli", Message: "Harika", LawyerID: &lawyer.ID}); err != nil {
			return err
		}
		n, err = s.DeleteLawyerDependents(ctx, lawyer.ID)
		if err != nil || n != 1 {
			t.Fatalf("DeleteLawyerDependents = %d, %v", n, err)
		}

		deleted, err := s.DeleteLawyer(ctx, lawyer.ID)
		if err != nil || !deleted {
			t.Fatalf("DeleteLawyer = %v, %v", deleted, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}

func TestCaseOutcomeAndTestimonial_ResolveNames(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		pa := &PracticeArea{Name: "İş Hukuku"}
		if err := s.CreatePracticeArea(ctx, pa); err != nil {
			return err
		}
		lawyer := &LawyerProfile{Name: "Av. Can Öztürk", PracticeAreaID: &pa.ID}
		if err := s.CreateLawyer(ctx, lawyer); err != nil {
			return err
		}

		outcome := &CaseOutcome{
			Title:          "İşe iade davası",
			Outcome:        strPtr("Kazanıldı"),
			ResolvedOn:     strPtr("2024-03-15"),
			LawyerID:       &lawyer.ID,
			PracticeAreaID: &pa.ID,
		}
		if err := s.CreateCaseOutcome(ctx, outcome); err != nil {
			return err
		}
		got, err := s.GetCaseOutcome(ctx, outcome.ID)
		if err != nil {
			return err
		}
		if got.LawyerName == nil || *got.LawyerName != lawyer.Name {
			t.Fatalf("expected lawyer name, got %v", got.LawyerName)
		}
		if got.PracticeAreaName == nil || *got.PracticeAreaName != pa.Name {
			t.Fatalf("expected practice area name, got %v", got.PracticeAreaName)
		}
		if got.ResolvedOn == nil || *got.ResolvedOn != "2024-03-15" {
			t.Fatalf("unexpected resolved_on %v", got.ResolvedOn)
		}

		testimonial := &Testimonial{ClientName: "Fatma", Message: "Çok memnun kaldım", Rating: int64Ptr(5), LawyerID: &lawyer.ID}
		if err := s.CreateTestimonial(ctx, testimonial); err != nil {
			return err
		}
		gotT, err := s.GetTestimonial(ctx, testimonial.ID)
		if err != nil {
			return err
		}
		if gotT.LawyerName == nil || *gotT.LawyerName != lawyer.Name || *gotT.Rating != 5 {
			t.Fatalf("unexpected testimonial %+v", gotT)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}

func TestTestimonial_RatingCheck(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		return s.CreateTestimonial(ctx, &Testimonial{ClientName: "Ali", Message: "?", Rating: int64Ptr(9)})
	})
	if err == nil {
		t.Fatal("expected rating check constraint to reject 9")
	}
}

func TestContactMessage_CRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		msg := &ContactMessage{SenderName: "Ali Veli", SenderEmail: "ali@example.com", Body: "Randevu almak istiyorum"}
		if err := s.CreateContactMessage(ctx, msg); err != nil {
			return err
		}
		if msg.CreatedAt.IsZero() {
			t.Fatal("expected created_at to be stamped")
		}

		msg.Phone = strPtr("+90 555 000 00 00")
		found, err := s.UpdateContactMessage(ctx, msg)
		if err != nil || !found {
			t.Fatalf("UpdateContactMessage = %v, %v", found, err)
		}

		got, err := s.GetContactMessage(ctx, msg.ID)
		if err != nil {
			return err
		}
		if got.Phone == nil || *got.Phone != *msg.Phone {
			t.Fatalf("unexpected phone %v", got.Phone)
		}

		list, err := s.ListContactMessages(ctx)
		if err != nil || len(list) != 1 {
			t.Fatalf("ListContactMessages = %d, %v", len(list), err)
		}

		deleted, err := s.DeleteContactMessage(ctx, msg.ID)
		if err != nil || !deleted {
			t.Fatalf("DeleteContactMessage = %v, %v", deleted, err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}

func TestLanguages_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: `"tr"`, want: []string{"tr"}},
		{in: `["tr","en"]`, want: []string{"tr", "en"}},
		{in: `null`, want: nil},
	}

	for _, tt := range tests {
		var l Languages
		if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", tt.in, err)
		}
		if len(l) != len(tt.want) {
			t.Fatalf("Unmarshal(%s) = %v, want %v", tt.in, l, tt.want)
		}
		for i := range l {
			if l[i] != tt.want[i] {
				t.Fatalf("Unmarshal(%s) = %v, want %v", tt.in, l, tt.want)
			}
		}
	}

	var l Languages
	if err := json.Unmarshal([]byte(`42`), &l); err == nil {
		t.Fatal("expected error for numeric languages")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	if err := db.InitializeDefaults(ctx); err != nil {
		t.Fatalf("InitializeDefaults returned error: %v", err)
	}

	value, err := db.GetSetting(ctx, "log.level")
	if err != nil || value != "info" {
		t.Fatalf("GetSetting(log.level) = %q, %v", value, err)
	}

	if err := db.SetSetting(ctx, "log.level", "debug"); err != nil {
		t.Fatalf("SetSetting returned error: %v", err)
	}
	// seeding again must not overwrite an operator's value
	if err := db.InitializeDefaults(ctx); err != nil {
		t.Fatalf("InitializeDefaults returned error: %v", err)
	}
	if value, _ := db.GetSetting(ctx, "log.level"); value != "debug" {
		t.Fatalf("expected debug to survive reseeding, got %q", value)
	}

	if value, err := db.GetSetting(ctx, "missing.key"); err != nil || value != "" {
		t.Fatalf("GetSetting(missing) = %q, %v", value, err)
	}

	settings, err := db.ListSettings(ctx)
	if err != nil {
		t.Fatalf("ListSettings returned error: %v", err)
	}
	if len(settings) != len(DefaultSettings) {
		t.Fatalf("expected %d settings, got %d", len(DefaultSettings), len(settings))
	}
	for i := 1; i < len(settings); i++ {
		if settings[i-1].Key > settings[i].Key {
			t.Fatalf("settings not ordered by key: %q before %q", settings[i-1].Key, settings[i].Key)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Av. Şule Öztürk", "av. şule öztürk"},
		{"ÇAĞRI", "çağri"},
		{"Ağır Ceza", "ağir ceza"},
		{"İSTANBUL", "istanbul"},
		{"i\u0307zmir", "izmir"},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLawyer_SearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.Transaction(ctx, func(ctx context.Context, s *Session) error {
		for _, l := range []*LawyerProfile{
			{Name: "Av. Şule Öztürk", Bio: strPtr("İş hukuku ve %100 uzlaşma")},
			{Name: "Av. Çağrı Işık"},
			{Name: "Av. Mehmet Kaya"},
		} {
			if err := s.CreateLawyer(ctx, l); err != nil {
				return err
			}
		}

		tests := []struct {
			search string
			want   string
		}{
			{"şule", "Av. Şule Öztürk"},
			{"ŞULE", "Av. Şule Öztürk"},
			{"öztürk", "Av. Şule Öztürk"},
			{"Şule", "Av. Şule Öztürk"},
			{"iş hukuku", "Av. Şule Öztürk"},
			{"%100", "Av. Şule Öztürk"},
			{"ÇAĞRI", "Av. Çağrı Işık"},
			{"ışık", "Av. Çağrı Işık"},
		}
		for _, tt := range tests {
			found, err := s.ListLawyers(ctx, LawyerFilter{Search: tt.search})
			if err != nil {
				return err
			}
			if len(found) != 1 || found[0].Name != tt.want {
				t.Errorf("search %q: got %d results, want %q", tt.search, len(found), tt.want)
			}
		}

		// wildcards in the term match literally
		found, err := s.ListLawyers(ctx, LawyerFilter{Search: "_"})
		if err != nil {
			return err
		}
		if len(found) != 0 {
			t.Errorf("search %q: expected no results, got %d", "_", len(found))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
}
