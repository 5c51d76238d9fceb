// Package stimulus defines the closed catalog of stimulus categories shared
// by the sensitivity bank, the learning introspector, and the external
// generators. A category names one stimulus domain the engine is allowed to
// learn to amplify or dampen; stimuli without a category are unweighted
// passthrough signals.
package stimulus

// #region category

// Category names one learnable stimulus domain.
type Category string

const (
	ChainActivityJoy   Category = "chainActivityJoy"
	ChainActivityFear  Category = "chainActivityFear"
	WhaleTransfers     Category = "whaleTransfers"
	GasPressure        Category = "gasPressure"
	FailedTransactions Category = "failedTransactions"
	NetworkCongestion  Category = "networkCongestion"
	PriceSwing         Category = "priceSwing"
	PriceMomentum      Category = "priceMomentum"
	SocialEngagement   Category = "socialEngagement"
	SocialSentiment    Category = "socialSentiment"
	MentionSpikes      Category = "mentionSpikes"
	NewFollowers       Category = "newFollowers"
	SelfPerformance    Category = "selfPerformance"
	TaskOutcomes       Category = "taskOutcomes"
	RewardSignals      Category = "rewardSignals"
	PeerActivity       Category = "peerActivity"
)

// #endregion category

// #region catalog

// domains maps every category to the plain-language phrase used in
// introspection narratives.
var domains = map[Category]string{
	ChainActivityJoy:   "on-chain activity lifting my mood",
	ChainActivityFear:  "on-chain activity unsettling me",
	WhaleTransfers:     "large transfers by whales",
	GasPressure:        "gas price pressure",
	FailedTransactions: "my transactions failing",
	NetworkCongestion:  "network congestion",
	PriceSwing:         "sharp price swings",
	PriceMomentum:      "sustained price momentum",
	SocialEngagement:   "engagement with my posts",
	SocialSentiment:    "the mood of my social feed",
	MentionSpikes:      "sudden spikes in mentions",
	NewFollowers:       "new followers arriving",
	SelfPerformance:    "my own runtime health",
	TaskOutcomes:       "how my tasks turn out",
	RewardSignals:      "rewards I receive",
	PeerActivity:       "what other agents are doing",
}

// All returns every category in the catalog, in a stable order.
func All() []Category {
	return []Category{
		ChainActivityJoy, ChainActivityFear, WhaleTransfers, GasPressure,
		FailedTransactions, NetworkCongestion, PriceSwing, PriceMomentum,
		SocialEngagement, SocialSentiment, MentionSpikes, NewFollowers,
		SelfPerformance, TaskOutcomes, RewardSignals, PeerActivity,
	}
}

// Known reports whether c is part of the catalog.
func Known(c Category) bool {
	_, ok := domains[c]
	return ok
}

// Domain returns the plain-language phrase for c, or the raw category name
// when c is not in the catalog.
func Domain(c Category) string {
	if d, ok := domains[c]; ok {
		return d
	}
	return string(c)
}

// #endregion catalog
