package healthcheck

import "fmt"

// Call names one of the three pings.
type Call string

const (
	CallStart  Call = "start"
	CallFinish Call = "finish"
	CallFail   Call = "fail"
)

// ReportError is returned when a ping could not be delivered.
type ReportError struct {
	Call     Call
	Attempts int
	Status   int // last HTTP status, 0 for transport errors
	Err      error
}

func (e *ReportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("healthcheck %s request failed after %d attempts: %v", e.Call, e.Attempts, e.Err)
	}
	return fmt.Sprintf("healthcheck %s request failed: %v", e.Call, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }
