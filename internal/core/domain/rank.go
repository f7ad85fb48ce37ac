package domain

// Rank is a donor's reputation tier, derived from the number of paid requests.
type Rank string

const (
	RankHopeGiver         Rank = "Hope Giver"
	RankLifelineSupporter Rank = "Lifeline Supporter"
	RankHeartOfGold       Rank = "Heart of Gold"
	RankBeaconOfLight     Rank = "Beacon of Light"
)

// RankTier maps a minimum paid-requests count to a rank.
type RankTier struct {
	Threshold int  `json:"threshold"`
	Rank      Rank `json:"rank"`
}

// RankTiers is ordered by ascending threshold.
var RankTiers = []RankTier{
	{Threshold: 0, Rank: RankHopeGiver},
	{Threshold: 5, Rank: RankLifelineSupporter},
	{Threshold: 10, Rank: RankHeartOfGold},
	{Threshold: 20, Rank: RankBeaconOfLight},
}

// RankFor returns the rank of the largest threshold not exceeding paidCount.
func RankFor(paidCount int) Rank {
	rank := RankTiers[0].Rank
	for _, tier := range RankTiers {
		if paidCount >= tier.Threshold {
			rank = tier.Rank
		}
	}
	return rank
}
