package errors

import "fmt"

var (
	ErrUnknownChannel   = fmt.Errorf("unknown notification channel")
	ErrInvalidOperation = fmt.Errorf("invalid notification operation")
	ErrNoReceivers      = fmt.Errorf("no live receivers")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)
