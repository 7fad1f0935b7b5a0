package loyalty

// Action types accepted by the points calculator. Achievement and challenge
// actions are only produced internally when a tracker issues a bonus lookup.
const (
	ActionShipment    = "shipment"
	ActionReferral    = "referral"
	ActionReview      = "review"
	ActionSocialShare = "social_share"
	ActionBirthday    = "birthday"
	ActionAchievement = "achievement"
	ActionChallenge   = "challenge"
)

// Trigger types that appear in legacy achievement configuration but have no
// evaluation rule. The seed loader refuses them and the tracker reports them
// as unsupported rather than silently ignoring a configured achievement.
const (
	TriggerPointsEarned = "points_earned"
	TriggerStreakDays   = "streak_days"
)

func KnownAction(action string) bool {
	switch action {
	case ActionShipment, ActionReferral, ActionReview, ActionSocialShare,
		ActionBirthday, ActionAchievement, ActionChallenge:
		return true
	}
	return false
}

func UnsupportedTrigger(trigger string) bool {
	return trigger == TriggerPointsEarned || trigger == TriggerStreakDays
}
