package domain

// AvailabilityTask is the unit of work handed from the scheduler to the
// availability worker pool over the task queue.
type AvailabilityTask struct {
	RequestID string          `json:"request_id"`
	Username  string          `json:"username"`
	StoreSlug string          `json:"store_slug"`
	Card      CardRequestSpec `json:"card"`
}
