package atlas

import "testing"

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{"na", RegionNA, false},
		{"NA", RegionNA, false},
		{"jp", RegionJP, false},
		{"Jp", RegionJP, false},
		{"eu", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRegion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRegion(%q) err = %v, want error %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRegion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssetURLs(t *testing.T) {
	c := NewClient(DefaultOptions())

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"servant list", c.ServantListURL(RegionNA),
			"https://api.atlasacademy.io/export/NA/basic_servant.json"},
		{"equip list", c.EquipListURL(RegionJP),
			"https://api.atlasacademy.io/export/JP/basic_equip.json"},
		{"servant detail", c.ServantDetailURL(RegionNA, 100100),
			"https://api.atlasacademy.io/nice/NA/servant/100100"},
		{"face", c.FaceURL(RegionNA, 100100),
			"https://static.atlasacademy.io/NA/Faces/f_1001000.png"},
		{"portrait", c.PortraitURL(RegionNA, 100100),
			"https://static.atlasacademy.io/NA/Faces/f_1001001.png"},
		{"command card", c.CommandCardURL(RegionNA, "buster", 100100),
			"https://static.atlasacademy.io/NA/Commands/cmd_card_buster_100100.png"},
		{"skill icon", c.SkillIconURL(RegionNA, 1),
			"https://static.atlasacademy.io/NA/SkillIcons/skill_00001.png"},
		{"class icon plain", c.ClassIconURL(RegionNA, "", 1),
			"https://static.atlasacademy.io/NA/ClassIcons/class_1.png"},
		{"class icon gold", c.ClassIconURL(RegionNA, "_gold", 7),
			"https://static.atlasacademy.io/NA/ClassIcons/class_gold_7.png"},
		{"ui asset", c.UIAssetURL(RegionNA, UIAssets[0]),
			"https://static.atlasacademy.io/NA/Buttons/btn_attack.png"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestCardTypes(t *testing.T) {
	want := map[int]string{1: "arts", 2: "buster", 3: "quick"}
	for id, name := range want {
		if CardTypes[id] != name {
			t.Errorf("CardTypes[%d] = %q, want %q", id, CardTypes[id], name)
		}
	}
	if _, ok := CardTypes[4]; ok {
		t.Error("CardTypes contains an id past the card type range")
	}
}

func TestClassNamesComplete(t *testing.T) {
	if len(ClassNames) != 15 {
		t.Fatalf("ClassNames has %d entries, want 15", len(ClassNames))
	}
	for id := 1; id <= 15; id++ {
		if ClassNames[id] == "" {
			t.Errorf("ClassNames[%d] missing", id)
		}
	}
	if ClassNames[1] != "saber" || ClassNames[15] != "beast" {
		t.Errorf("unexpected class ordering: 1=%s 15=%s", ClassNames[1], ClassNames[15])
	}
}

func TestIsEnemy(t *testing.T) {
	tests := []struct {
		servant BasicServant
		want    bool
	}{
		{BasicServant{CollectionNo: 2, Name: "Altria Pendragon"}, false},
		{BasicServant{CollectionNo: 300, Name: "Last playable"}, false},
		{BasicServant{CollectionNo: 301, Name: "Past the range"}, true},
		{BasicServant{CollectionNo: 0, Name: "Skeleton Enemy"}, true},
		{BasicServant{CollectionNo: 150, Name: "enemy programme"}, true},
	}

	for _, tt := range tests {
		if got := tt.servant.IsEnemy(); got != tt.want {
			t.Errorf("IsEnemy(%q, no %d) = %t, want %t",
				tt.servant.Name, tt.servant.CollectionNo, got, tt.want)
		}
	}
}
