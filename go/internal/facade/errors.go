package facade

import (
	"fmt"
	"strings"
)

// FetchFailure records one failed sub-fetch of an aggregate operation.
type FetchFailure struct {
	Resource string
	Err      error
}

// PartialFetchError reports which sub-fetches of an aggregate operation
// failed. Not-found on optional relations never lands here; those resolve to
// empty collections.
type PartialFetchError struct {
	Failures []FetchFailure
}

func (e *PartialFetchError) Error() string {
	resources := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		resources[i] = fmt.Sprintf("%s: %v", f.Resource, f.Err)
	}
	return fmt.Sprintf("partial fetch failure (%d of the sub-fetches failed): %s",
		len(e.Failures), strings.Join(resources, "; "))
}
