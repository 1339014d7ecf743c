package calculator

import (
	"testing"
	"time"

	"occupancy/internal/model"
)

var day5 = time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

func interval(entry, exit string) model.AttendanceInterval {
	iv := model.AttendanceInterval{Date: day5, Entry: clock(entry)}
	if exit != "" {
		iv.Exit = clock(exit)
		iv.HasExit = true
	}
	return iv
}

func clock(s string) model.Clock {
	t, err := time.Parse("15:04", s)
	if err != nil {
		panic(err)
	}
	return model.Clock{Hour: t.Hour(), Minute: t.Minute()}
}

func bucketStrings(bs []model.Bucket) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.String())
	}
	return out
}

func TestExpandInterval(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		entry, exit string
		want        []string
	}{
		{"entry only", "09:15", "", []string{"2024-04-05 09:00"}},
		{"spans three hours", "09:15", "11:40", []string{"2024-04-05 09:00", "2024-04-05 10:00", "2024-04-05 11:00"}},
		{"exit on boundary", "09:15", "10:00", []string{"2024-04-05 09:00"}},
		{"exit just past boundary", "09:15", "10:05", []string{"2024-04-05 09:00", "2024-04-05 10:00"}},
		{"on the hour", "09:00", "11:00", []string{"2024-04-05 09:00", "2024-04-05 10:00"}},
		{"same hour", "09:15", "09:40", []string{}},
		{"entry equals exit", "09:15", "09:15", []string{}},
		{"exit before entry", "18:00", "09:00", []string{}},
		{"early morning outside window", "07:10", "09:30", []string{"2024-04-05 07:00", "2024-04-05 08:00", "2024-04-05 09:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := bucketStrings(ExpandInterval(interval(tc.entry, tc.exit)))
			if len(got) != len(tc.want) {
				t.Fatalf("buckets=%v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("buckets=%v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestExpandInterval_WholeDay(t *testing.T) {
	t.Parallel()

	got := ExpandInterval(interval("00:00", "23:59"))
	if len(got) != 24 {
		t.Fatalf("len=%d, want 24", len(got))
	}
	if got[23].Hour() != 23 {
		t.Fatalf("last bucket=%s", got[23])
	}
}

func TestBucketCount_ExitBeforeEntryTerminates(t *testing.T) {
	t.Parallel()

	entry := day5.Add(18 * time.Hour)
	exit := day5.Add(-72 * time.Hour)
	done := make(chan int, 1)
	go func() { done <- BucketCount(entry, exit) }()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("BucketCount=%d, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("BucketCount did not terminate")
	}
}
