package world

// WorldMetrics is a read-only counters snapshot published every tick
// for the admin surface. Safe to read from any goroutine.
type WorldMetrics struct {
	Tick         uint64      `json:"tick"`
	Players      int         `json:"players"`
	TileEntities int         `json:"tile_entities"`
	DroppedItems int         `json:"dropped_items"`
	StepMS       float64     `json:"step_ms"`
	QueueDepths  QueueDepths `json:"queue_depths"`
}

type QueueDepths struct {
	Inbox int `json:"inbox"`
	Join  int `json:"join"`
	Leave int `json:"leave"`
}

func (w *World) Metrics() WorldMetrics {
	if v, ok := w.metrics.Load().(WorldMetrics); ok {
		return v
	}
	return WorldMetrics{}
}
