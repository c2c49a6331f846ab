package moderationqueue

// ScheduledActionJob fires one scheduled_actions row. The action id is the
// only argument, so inserting the same action twice is deduplicated.
type ScheduledActionJob struct {
	ActionID string `json:"action_id"`
}

// Kind returns the job type identifier for River
func (ScheduledActionJob) Kind() string { return "scheduled_action" }
