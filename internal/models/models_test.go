package models

import "testing"

func TestTrackDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "one hour one minute one second", ms: 3661000, want: "01:01:01"},
		{name: "zero", ms: 0, want: "00:00:00"},
		{name: "sub-second remainder is dropped", ms: 59999, want: "00:00:59"},
		{name: "typical track", ms: 215000, want: "00:03:35"},
		{name: "negative clamps to zero", ms: -5, want: "00:00:00"},
		{name: "hours wrap at a day", ms: 25 * 60 * 60 * 1000, want: "01:00:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Track{DurationMs: tt.ms}.Duration()
			if got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExportRecord(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		t.Run("valid record", func(t *testing.T) {
			rec := NewExportRecord("session", "Chill", "/tmp/Chill.csv", 3)
			if err := rec.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("missing playlist name", func(t *testing.T) {
			rec := NewExportRecord("session", "", "/tmp/x.csv", 3)
			if err := rec.Validate(); err == nil {
				t.Error("expected error for missing playlist name")
			}
		})

		t.Run("missing path", func(t *testing.T) {
			rec := NewExportRecord("session", "Chill", "", 3)
			if err := rec.Validate(); err == nil {
				t.Error("expected error for missing path")
			}
		})

		t.Run("negative track count", func(t *testing.T) {
			rec := NewExportRecord("session", "Chill", "/tmp/Chill.csv", -1)
			if err := rec.Validate(); err == nil {
				t.Error("expected error for negative track count")
			}
		})
	})

	t.Run("timestamps are set", func(t *testing.T) {
		rec := NewExportRecord("session", "Chill", "/tmp/Chill.csv", 0)
		if rec.CreatedAt().IsZero() || rec.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
	})
}
