package parser

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"occupancy/internal/model"
)

func TestExtractTimes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want []string
	}{
		{"", nil},
		{"휴가", nil},
		{"09:15", []string{"09:15"}},
		{"출근 09:15 / 퇴근 18:40", []string{"09:15", "18:40"}},
		{"09:15~11:40 (12:30)", []string{"09:15", "11:40", "12:30"}},
		{"9:15", nil},
		{"109:150", nil},
	}
	for _, tc := range cases {
		got := ExtractTimes(tc.text)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ExtractTimes(%q)=%v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	c, err := ParseClock("09:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if c.Hour != 9 || c.Minute != 5 {
		t.Fatalf("clock=%v, want 09:05", c)
	}

	for _, bad := range []string{"24:00", "12:60", "25:99", "ab:cd", "0915"} {
		if _, err := ParseClock(bad); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("ParseClock(%q) err=%v, want ErrInvalidClock", bad, err)
		}
	}
}

func TestSplitEntryExit_IgnoresExtraMatches(t *testing.T) {
	t.Parallel()

	entry, exit, err := SplitEntryExit([]string{"09:00", "12:00", "13:00"}, false)
	if err != nil {
		t.Fatalf("SplitEntryExit: %v", err)
	}
	if entry != "09:00" || exit != "12:00" {
		t.Fatalf("entry=%q exit=%q", entry, exit)
	}

	if _, _, err := SplitEntryExit([]string{"09:00", "12:00", "13:00"}, true); !errors.Is(err, ErrTooManyTimes) {
		t.Fatalf("strict err=%v, want ErrTooManyTimes", err)
	}
}

func TestParseInterval(t *testing.T) {
	t.Parallel()

	date := model.ColumnDate{Column: 2, Day: 5, Date: time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)}

	if _, ok, err := ParseInterval("결근", date, false); ok || err != nil {
		t.Fatalf("no times: ok=%v err=%v", ok, err)
	}

	iv, ok, err := ParseInterval("09:15", date, false)
	if err != nil || !ok {
		t.Fatalf("entry only: ok=%v err=%v", ok, err)
	}
	if iv.HasExit {
		t.Fatalf("entry only should not have exit")
	}
	if got, want := iv.EntryTime(), time.Date(2024, 4, 5, 9, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("EntryTime=%v, want %v", got, want)
	}

	iv, ok, err = ParseInterval("in 09:15 out 11:40", date, false)
	if err != nil || !ok {
		t.Fatalf("entry+exit: ok=%v err=%v", ok, err)
	}
	if !iv.HasExit || iv.Exit != (model.Clock{Hour: 11, Minute: 40}) {
		t.Fatalf("exit=%v hasExit=%v", iv.Exit, iv.HasExit)
	}

	if _, _, err := ParseInterval("09:15 25:99", date, false); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("bad exit err=%v, want ErrInvalidClock", err)
	}
}
