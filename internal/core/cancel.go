package core

import (
	"context"
	"sync"
)

// cancelManager holds the cancel func of the one chat request in flight.
// Starting a request cancels the previous one.
type cancelManager struct {
	mu         sync.Mutex
	requestID  string
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// replace cancels whatever is in flight and tracks id instead.
func (cm *cancelManager) replace(id string, fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
	}
	cm.requestID = id
	cm.cancelFunc = fn
}

// cancel aborts the request with id. An empty id aborts whatever is in flight.
func (cm *cancelManager) cancel(id string) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc == nil || (id != "" && id != cm.requestID) {
		return false
	}
	cm.cancelFunc()
	cm.cancelFunc = nil
	cm.requestID = ""
	return true
}

// finish releases the context of a request that completed on its own.
func (cm *cancelManager) finish(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.requestID != id || cm.cancelFunc == nil {
		return
	}
	cm.cancelFunc()
	cm.cancelFunc = nil
	cm.requestID = ""
}

func (cm *cancelManager) current() string {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.requestID
}
