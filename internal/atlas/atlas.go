package atlas

import (
	"fmt"
	"strings"
)

// Region selects which game server's exports and assets to pull. The
// API spells regions uppercase in its paths.
type Region string

// Supported regions.
const (
	RegionNA Region = "NA"
	RegionJP Region = "JP"
)

// ParseRegion normalizes a user-supplied region name.
func ParseRegion(s string) (Region, error) {
	switch strings.ToUpper(s) {
	case "NA":
		return RegionNA, nil
	case "JP":
		return RegionJP, nil
	default:
		return "", fmt.Errorf("atlas: unknown region %q (want na or jp)", s)
	}
}

// Service endpoints.
const (
	// APIBase is the Atlas Academy API root.
	APIBase = "https://api.atlasacademy.io"

	// CDNBase is the asset CDN root; assets live under a region prefix.
	CDNBase = "https://static.atlasacademy.io"

	// UserAgent is sent with every request. The CDN serves browsers, so
	// the client identifies as one.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// CardTypes maps the numeric card type ids used by servant records to
// card names.
var CardTypes = map[int]string{
	1: "arts",
	2: "buster",
	3: "quick",
}

// ClassNames maps numeric class ids to class names, in the order the
// game defines them.
var ClassNames = map[int]string{
	1:  "saber",
	2:  "archer",
	3:  "lancer",
	4:  "rider",
	5:  "caster",
	6:  "assassin",
	7:  "berserker",
	8:  "shielder",
	9:  "ruler",
	10: "avenger",
	11: "moon_cancer",
	12: "alter_ego",
	13: "foreigner",
	14: "pretender",
	15: "beast",
}

// ClassIconVariants are the rarity frames the CDN serves per class.
var ClassIconVariants = []string{"", "_gold", "_silver", "_bronze"}

// MaxSkillIconID bounds the skill icon sweep; most icons live below it.
const MaxSkillIconID = 499

// UIAsset names one fixed UI element and its CDN path.
type UIAsset struct {
	Name string
	Path string
}

// UIAssets is the fixed set of battle UI elements worth collecting.
var UIAssets = []UIAsset{
	{"attack_btn", "Buttons/btn_attack.png"},
	{"skill_btn", "Buttons/btn_skill.png"},
	{"master_skill_btn", "Buttons/btn_master_skill.png"},
	{"np_gauge_frame", "Battle/np_gauge_frame.png"},
	{"hp_bar_frame", "Battle/hp_bar_frame.png"},
	{"battle_frame", "Battle/battle_frame.png"},
	{"card_frame_buster", "Cards/card_frame_buster.png"},
	{"card_frame_arts", "Cards/card_frame_arts.png"},
	{"card_frame_quick", "Cards/card_frame_quick.png"},
}

// exportBase returns the root of a region's bulk JSON exports.
func (c *Client) exportBase(region Region) string {
	return c.opts.APIBase + "/export/" + string(region)
}

// cdnRoot returns the root of a region's asset tree.
func (c *Client) cdnRoot(region Region) string {
	return c.opts.CDNBase + "/" + string(region)
}

// ServantListURL is the basic servant export: one row per servant,
// enemies included.
func (c *Client) ServantListURL(region Region) string {
	return c.exportBase(region) + "/basic_servant.json"
}

// EquipListURL is the basic craft essence export.
func (c *Client) EquipListURL(region Region) string {
	return c.exportBase(region) + "/basic_equip.json"
}

// ServantDetailURL is the full servant record, addressed by the raw
// servant id (not the collection number).
func (c *Client) ServantDetailURL(region Region, id int) string {
	return fmt.Sprintf("%s/nice/%s/servant/%d", c.opts.APIBase, region, id)
}

// FaceURL is a servant's battle face icon.
func (c *Client) FaceURL(region Region, id int) string {
	return fmt.Sprintf("%s/Faces/f_%d0.png", c.cdnRoot(region), id)
}

// PortraitURL is a servant's info screen portrait.
func (c *Client) PortraitURL(region Region, id int) string {
	return fmt.Sprintf("%s/Faces/f_%d1.png", c.cdnRoot(region), id)
}

// CommandCardURL is a servant's command card art for one card type.
func (c *Client) CommandCardURL(region Region, cardType string, id int) string {
	return fmt.Sprintf("%s/Commands/cmd_card_%s_%d.png", c.cdnRoot(region), cardType, id)
}

// SkillIconURL is a skill icon; the CDN zero-pads ids to five digits.
func (c *Client) SkillIconURL(region Region, id int) string {
	return fmt.Sprintf("%s/SkillIcons/skill_%05d.png", c.cdnRoot(region), id)
}

// ClassIconURL is a class icon for one rarity variant.
func (c *Client) ClassIconURL(region Region, variant string, classID int) string {
	return fmt.Sprintf("%s/ClassIcons/class%s_%d.png", c.cdnRoot(region), variant, classID)
}

// UIAssetURL resolves a UI asset path against a region's CDN.
func (c *Client) UIAssetURL(region Region, asset UIAsset) string {
	return c.cdnRoot(region) + "/" + asset.Path
}
