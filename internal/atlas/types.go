package atlas

import "strings"

// BasicServant is one row of the basic servant export.
type BasicServant struct {
	ID           int    `json:"id"`
	CollectionNo int    `json:"collectionNo"`
	Name         string `json:"name"`
	ClassName    string `json:"className"`
	Rarity       int    `json:"rarity"`
}

// IsEnemy reports whether the row looks like an enemy entry rather than
// a playable servant. The export mixes both and carries no explicit
// flag, so this goes by collection numbers past the playable range and
// by names; it is a heuristic and misclassifies some story entries.
func (s BasicServant) IsEnemy() bool {
	return s.CollectionNo > 300 || strings.Contains(strings.ToLower(s.Name), "enemy")
}

// BasicEquip is one row of the basic craft essence export.
type BasicEquip struct {
	ID           int    `json:"id"`
	CollectionNo int    `json:"collectionNo"`
	Name         string `json:"name"`
	Rarity       int    `json:"rarity"`
}

// ServantDetail is the slice of the full servant record the collector
// uses: the command card deck, as numeric card type ids.
type ServantDetail struct {
	ID    int   `json:"id"`
	Cards []int `json:"cards"`
}
