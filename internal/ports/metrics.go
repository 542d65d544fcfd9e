package ports

type Metrics interface {
	WatchPing(channel string, err error)
	PointsClaimed(channel string)
	DropClaimed()
	WatchingChanged(channel string)
	TokenInvalidated()
}

type NopMetrics struct{}

func (NopMetrics) WatchPing(string, error) {}
func (NopMetrics) PointsClaimed(string)    {}
func (NopMetrics) DropClaimed()            {}
func (NopMetrics) WatchingChanged(string)  {}
func (NopMetrics) TokenInvalidated()       {}
