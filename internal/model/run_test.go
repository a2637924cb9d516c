package model

import (
	"encoding/json"
	"testing"
)

func TestRank_JSONRoundTrip(t *testing.T) {
	for r := RankNone; r <= RankWhale; r++ {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal %s: %v", r, err)
		}
		var back Rank
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != r {
			t.Errorf("round trip changed %s to %s", r, back)
		}
	}
}

func TestRank_UnknownNameMigratesToNone(t *testing.T) {
	var r Rank
	if err := json.Unmarshal([]byte(`"LEGEND"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RankNone {
		t.Errorf("unknown name should map to NONE, got %s", r)
	}
}

func TestRunState_SaveWithoutRankLoads(t *testing.T) {
	// A save written before the rank ladder existed has no rank field.
	old := []byte(`{"day":12,"location":"Watts","cash":70000,"inventory":{"Weed":5},"coat_space":100}`)
	var s RunState
	if err := json.Unmarshal(old, &s); err != nil {
		t.Fatalf("unmarshal legacy save: %v", err)
	}
	if s.Rank != RankNone || s.StakedAmount != 0 {
		t.Errorf("legacy save should start unranked, got %s / %d", s.Rank, s.StakedAmount)
	}
	if s.Day != 12 || s.Cash != 70000 {
		t.Error("legacy fields lost")
	}
}

func TestValidLocation(t *testing.T) {
	for _, loc := range Locations {
		if !ValidLocation(loc) {
			t.Errorf("%s should be valid", loc)
		}
	}
	if ValidLocation("Fresno") || ValidLocation("") {
		t.Error("unknown locations must be rejected")
	}
}

func TestRunState_Clone(t *testing.T) {
	s := &RunState{
		Inventory: map[string]int64{"Weed": 3},
		Prices:    map[string]int64{"Weed": 900},
	}
	c := s.Clone()
	c.Inventory["Weed"] = 99
	c.Prices["Weed"] = 1

	if s.Inventory["Weed"] != 3 || s.Prices["Weed"] != 900 {
		t.Error("clone shares maps with the original")
	}
}
