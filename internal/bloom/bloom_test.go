package bloom

import "testing"

func TestParseLevel_RoundTrip(t *testing.T) {
	for _, l := range AllLevels() {
		if got := ParseLevel(l.String()); got != l {
			t.Errorf("ParseLevel(%q): got %v, want %v", l.String(), got, l)
		}
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	for _, s := range []string{"", "mastered", "REMEMBER", "recall"} {
		if got := ParseLevel(s); got != LevelNone {
			t.Errorf("ParseLevel(%q): got %v, want LevelNone", s, got)
		}
	}
}

func TestLevels_Ordered(t *testing.T) {
	levels := AllLevels()
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Errorf("levels not strictly ascending at index %d", i)
		}
	}
}

func TestMax(t *testing.T) {
	if got := Max(LevelApply, LevelAnalyze); got != LevelAnalyze {
		t.Errorf("Max(apply, analyze): got %v", got)
	}
	if got := Max(LevelCreate, LevelNone); got != LevelCreate {
		t.Errorf("Max(create, none): got %v", got)
	}
}

func TestNext_CapsAtCreate(t *testing.T) {
	if got := LevelCreate.Next(); got != LevelCreate {
		t.Errorf("Next at top: got %v, want create", got)
	}
	if got := LevelRemember.Next(); got != LevelUnderstand {
		t.Errorf("Next(remember): got %v, want understand", got)
	}
}
