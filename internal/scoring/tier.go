package scoring

import "github.com/dimitrije/gigmarket-api/internal/models"

// Unbounded marks the open top of the last band.
const Unbounded = -1

type Tier struct {
	Level     models.Level `json:"level"`
	SubLevel  int          `json:"sub_level"`
	MinPoints int          `json:"min_points"`
	MaxPoints int          `json:"max_points"`
}

func (t Tier) Contains(points int) bool {
	if points < t.MinPoints {
		return false
	}
	return t.MaxPoints == Unbounded || points <= t.MaxPoints
}

var tiers = []Tier{
	{Level: models.LevelBronze, SubLevel: 1, MinPoints: 0, MaxPoints: 119},
	{Level: models.LevelBronze, SubLevel: 2, MinPoints: 120, MaxPoints: 249},
	{Level: models.LevelBronze, SubLevel: 3, MinPoints: 250, MaxPoints: 379},
	{Level: models.LevelSilver, SubLevel: 1, MinPoints: 380, MaxPoints: 529},
	{Level: models.LevelSilver, SubLevel: 2, MinPoints: 530, MaxPoints: 699},
	{Level: models.LevelSilver, SubLevel: 3, MinPoints: 700, MaxPoints: 889},
	{Level: models.LevelGold, SubLevel: 1, MinPoints: 890, MaxPoints: 1099},
	{Level: models.LevelGold, SubLevel: 2, MinPoints: 1100, MaxPoints: 1349},
	{Level: models.LevelGold, SubLevel: 3, MinPoints: 1350, MaxPoints: Unbounded},
}

// Tiers returns the band table in ascending order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// LookupTier returns the first band containing points, or Bronze 1 when
// nothing matches.
func LookupTier(points int) Tier {
	for _, t := range tiers {
		if t.Contains(points) {
			return t
		}
	}
	return tiers[0]
}
