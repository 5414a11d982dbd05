package entity

// RemoteCall describes one upstream REST call a platform needs for a full
// snapshot. The orchestrator runs all of a platform's calls concurrently.
type RemoteCall struct {
	// Name keys the result inside the RawBundle ("account", "analytics",
	// "posts", ...). Adapters look results up by this name.
	Name  string
	Path  string
	Query map[string]string
}

// CallResult is the wrapped outcome of one upstream call. Failures are
// carried as values, never thrown past the orchestrator.
type CallResult struct {
	Name       string
	Success    bool
	StatusCode int
	Body       []byte
	Err        error
}

// RawBundle collects the call results of one fetch run, keyed by call name.
type RawBundle struct {
	Platform Platform
	Results  map[string]CallResult
}

func NewRawBundle(platform Platform) *RawBundle {
	return &RawBundle{
		Platform: platform,
		Results:  map[string]CallResult{},
	}
}

// Get returns the result for a call name; a missing entry reads as a failed
// call so adapters can treat absent and failed responses uniformly.
func (b *RawBundle) Get(name string) CallResult {
	if r, ok := b.Results[name]; ok {
		return r
	}
	return CallResult{Name: name}
}

// Succeeded counts calls that completed with success=true.
func (b *RawBundle) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Success {
			n++
		}
	}
	return n
}

func (b *RawBundle) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// AnySuccess reports whether at least one call produced usable data.
func (b *RawBundle) AnySuccess() bool {
	return b.Succeeded() > 0
}
